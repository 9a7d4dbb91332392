package model

// SortOrder orders item listings by purchase date.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Pagination defaults and limits.
const (
	DefaultPageSize = 9
	MaxPageSize     = 100
)

// ItemFilter selects a page of items. Zero values mean "not set".
type ItemFilter struct {
	Archived  *bool     `json:"archived"`
	Search    string    `json:"search" validate:"max=200"`
	Page      int       `json:"page" validate:"gte=0"`
	PageSize  int       `json:"pageSize" validate:"gte=0,lte=100"`
	SortOrder SortOrder `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Normalize fills in defaults for unset pagination and sort fields.
func (f ItemFilter) Normalize() ItemFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.SortOrder != SortAsc {
		f.SortOrder = SortDesc
	}
	return f
}

// Page is one page of a filtered listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int64 `json:"totalPages"`
}
