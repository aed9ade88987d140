package types

// AuthenticatedContext es la identidad verificada de un request.
// Se construye únicamente a partir de un access token válido y se pasa
// explícitamente por la cadena de llamadas.
type AuthenticatedContext struct {
	UserID string
	Email  string
}

// Authenticated indica si hay una identidad usable.
func (a *AuthenticatedContext) Authenticated() bool {
	return a != nil && a.UserID != ""
}
