package model

import "strings"

// None marks a missing parent reference, e.g. a program whose college was deleted.
const None = "N/A"

// DefaultPageSize is the fixed number of records per page.
const DefaultPageSize = 50

// IsNone reports whether a parent reference is empty or the None sentinel.
func IsNone(code string) bool {
	return code == "" || strings.EqualFold(code, None)
}

// OrNone maps an empty reference to None.
func OrNone(code string) string {
	if IsNone(code) {
		return None
	}
	return code
}

// SortOrder is the direction applied to both sort keys.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder accepts "asc"/"desc" in any case; anything else is ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return SortDesc
	}
	return SortAsc
}

// ListQuery describes one page of a filtered, sorted listing.
// Field empty means the term is matched against every searchable column.
type ListQuery struct {
	Page     int       `form:"page"`
	PageSize int       `form:"-"`
	SortBy   string    `form:"sort"`
	ThenBy   string    `form:"then"`
	Order    SortOrder `form:"order"`
	Field    string    `form:"field"`
	Term     string    `form:"q"`
}

// Page is a slice of records plus the information callers need to page through the rest.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPage builds a Page; TotalPages is ceil(total / perPage).
func NewPage[T any](items []T, page, perPage, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return Page[T]{Items: items, Page: page, PerPage: perPage, TotalItems: total, TotalPages: pages}
}

// LastPage is the page number callers clamp to; it is at least 1.
func (p Page[T]) LastPage() int {
	if p.TotalPages < 1 {
		return 1
	}
	return p.TotalPages
}

// Mutation is the outcome of a successful write.
type Mutation struct {
	Message  string `json:"message"`
	Affected int    `json:"affected"`
	Cascaded int    `json:"cascaded"`
}
