// Package admin contiene los DTOs HTTP de la administración de usuarios,
// roles y permisos. Los bodies de create/update son los request types del
// service admin.
package admin

// BulkDeleteRequest es el body de los endpoints bulk-delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteResponse informa cuántos registros se borraron.
type BulkDeleteResponse struct {
	Count int `json:"count"`
}

// SetPasswordRequest es el body de PUT /api/users/{id}/password.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// MessageResponse para endpoints sin payload propio.
type MessageResponse struct {
	Message string `json:"message"`
}
