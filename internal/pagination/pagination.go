// Package pagination implements the offset pagination contract used by list
// endpoints: page options on the way in, page metadata on the way out.
package pagination

import "math"

// Defaults applied when a query omits a value.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// SortField is a sortable resource attribute.
type SortField string

// Sortable fields.
const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortName      SortField = "name"
)

// SortFields lists every accepted SortField.
func SortFields() []SortField {
	return []SortField{SortCreatedAt, SortUpdatedAt, SortName}
}

// Order is a sort direction.
type Order string

// Sort directions.
const (
	OrderASC  Order = "ASC"
	OrderDESC Order = "DESC"
)

// Orders lists every accepted Order.
func Orders() []Order {
	return []Order{OrderASC, OrderDESC}
}

// Options is a decoded page request.
type Options struct {
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Sort  SortField `json:"sort"`
	Order Order     `json:"order"`
}

// DefaultOptions returns the options used when a query is empty.
func DefaultOptions() Options {
	return Options{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Sort:  SortCreatedAt,
		Order: OrderASC,
	}
}

// Offset is the number of records skipped before the page starts. It
// saturates at math.MaxInt instead of wrapping for very large pages.
func (o Options) Offset() int {
	if o.Page <= 1 || o.Limit <= 0 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.Limit {
		return math.MaxInt
	}
	return (o.Page - 1) * o.Limit
}

// Meta describes where a page sits within the full result set.
type Meta struct {
	Limit        int  `json:"limit"`
	CurrentPage  int  `json:"currentPage"`
	NextPage     *int `json:"nextPage,omitempty"`
	PreviousPage *int `json:"previousPage,omitempty"`
	TotalRecords int  `json:"totalRecords"`
	TotalPages   int  `json:"totalPages"`
}

// NewMeta computes page metadata for totalRecords matching rows.
func NewMeta(totalRecords, page, limit int) Meta {
	m := Meta{
		Limit:        limit,
		CurrentPage:  page,
		TotalRecords: totalRecords,
	}
	if limit > 0 {
		m.TotalPages = totalRecords / limit
		if totalRecords%limit != 0 {
			m.TotalPages++
		}
	}
	if page < m.TotalPages {
		next := page + 1
		m.NextPage = &next
	}
	if page > 1 && page-1 < m.TotalPages {
		prev := page - 1
		m.PreviousPage = &prev
	}
	return m
}

// Page is a slice of items together with its metadata.
type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// NewPage wraps items; a nil slice is rendered as an empty JSON array.
func NewPage[T any](items []T, meta Meta) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Pagination: meta}
}
