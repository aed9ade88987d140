package types

const (
	DefaultPageLimit           = 20
	DefaultPermissionPageLimit = 50
	MaxPageLimit               = 100
)

// SortDirection para listados.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PageRequest son los parámetros de paginación (page base 1).
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize aplica defaults y topes.
func (p PageRequest) Normalize(defaultLimit int) PageRequest {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset para queries.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta acompaña a los listados.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPageMeta calcula totalPages.
func NewPageMeta(p PageRequest, total int) PageMeta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageMeta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}
