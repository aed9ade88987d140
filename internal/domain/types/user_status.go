package types

import "strings"

// UserStatus es el estado de una cuenta.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// Valid indica si el valor es uno de los estados conocidos.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// ParseUserStatus normaliza a mayúsculas; retorna false si no es válido.
func ParseUserStatus(s string) (UserStatus, bool) {
	st := UserStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}
