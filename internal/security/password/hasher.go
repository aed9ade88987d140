package password

import (
	"fmt"
	"strings"
)

// Hasher es la función unidireccional para credenciales.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) bool
}

// Algoritmos soportados.
const (
	AlgArgon2id = "argon2id"
	AlgBcrypt   = "bcrypt"
)

// NewHasher construye un Hasher por nombre. bcryptCost <= 0 usa DefaultBcryptCost.
func NewHasher(alg string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(alg)) {
	case "", AlgArgon2id:
		return Argon2id{Params: Default}, nil
	case AlgBcrypt:
		if bcryptCost <= 0 {
			bcryptCost = DefaultBcryptCost
		}
		return Bcrypt{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("password: unknown hasher %q", alg)
	}
}

// Multi hashea con Primary y verifica contra cualquier formato conocido,
// de modo que cambiar de algoritmo no invalida hashes existentes.
type Multi struct {
	Primary Hasher
}

func (m Multi) Hash(plain string) (string, error) { return m.Primary.Hash(plain) }

func (m Multi) Verify(plain, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return Argon2id{}.Verify(plain, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return Bcrypt{}.Verify(plain, encoded)
	default:
		return false
	}
}
