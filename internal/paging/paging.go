// Package paging filters, orders and slices already-fetched collections and
// builds the paged envelope returned by every list endpoint.
package paging

import (
	"sort"
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPageNumber keeps (PageNumber-1)*PageSize well inside int range.
	MaxPageNumber = 1_000_000
)

// Page is the list envelope shared by every list endpoint.
type Page[T any] struct {
	Items           []T  `json:"items"`
	TotalCount      int  `json:"totalCount"`
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// Params selects one page.
type Params struct {
	PageNumber int
	PageSize   int
}

// Normalize clamps the page number to [1, MaxPageNumber] and the size to
// [1, MaxPageSize], substituting DefaultPageSize for a zero size.
func (p Params) Normalize() Params {
	switch {
	case p.PageNumber < 1:
		p.PageNumber = 1
	case p.PageNumber > MaxPageNumber:
		p.PageNumber = MaxPageNumber
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the index of the first item of the page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.PageNumber - 1) * n.PageSize
}

// TotalPages is ceil(total / size).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// NewPage builds the envelope for items that are already the requested page.
func NewPage[T any](items []T, total int, p Params) Page[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	pages := TotalPages(total, p.PageSize)
	return Page[T]{
		Items:           items,
		TotalCount:      total,
		PageNumber:      p.PageNumber,
		PageSize:        p.PageSize,
		TotalPages:      pages,
		HasPreviousPage: p.PageNumber > 1,
		HasNextPage:     p.PageNumber < pages,
	}
}

// Paginate slices items into the requested page. A page past the end is
// empty but keeps the totals.
func Paginate[T any](items []T, p Params) Page[T] {
	p = p.Normalize()
	start := min(max(p.Offset(), 0), len(items))
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return NewPage(page, len(items), p)
}

// Filter keeps the items for which any field contains term, ignoring case.
// An empty or blank term keeps everything. The input order is preserved.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || matches(fields(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

func matches(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// SortNewestFirst orders items by creation time descending, then by id
// descending when the times are equal. The sort is stable.
func SortNewestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) uint) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := createdAt(items[i]), createdAt(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}

// Apply runs the full in-memory list pipeline: filter by term, then page.
func Apply[T any](items []T, term string, fields func(T) []string, p Params) Page[T] {
	return Paginate(Filter(items, term, fields), p)
}

// Map converts every item of p with f and keeps the envelope.
func Map[T, U any](p Page[T], f func(*T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i := range p.Items {
		items[i] = f(&p.Items[i])
	}
	return Page[U]{
		Items:           items,
		TotalCount:      p.TotalCount,
		PageNumber:      p.PageNumber,
		PageSize:        p.PageSize,
		TotalPages:      p.TotalPages,
		HasPreviousPage: p.HasPreviousPage,
		HasNextPage:     p.HasNextPage,
	}
}
