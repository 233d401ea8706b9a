package client

import (
	"slices"
	"strings"
	"time"

	"talentdesk/internal/paging"
	"talentdesk/pkg/api"
)

// AvailableActions returns the statuses offered as actions for an inquiry in
// status. It mirrors the server's transition table for display only; the
// server re-validates every change.
func AvailableActions(status api.InquiryStatus) []api.InquiryStatus {
	return api.AllowedTransitions(status)
}

// CanClaim reports whether the claim action should be offered
func CanClaim(inq *api.Inquiry) bool {
	return inq.Status == api.StatusNew && inq.AssignedTo == nil
}

// CanChangeStatus reports whether userID may be offered status changes on inq
func CanChangeStatus(inq *api.Inquiry, userID uint) bool {
	if inq.AssignedTo != nil && *inq.AssignedTo != userID {
		return false
	}
	return !inq.Status.Terminal()
}

// ListView filters and pages an already-fetched collection. Changing the
// search term returns to the first page.
type ListView[T any] struct {
	items  []T
	fields func(T) []string
	order  func([]T)
	term   string
	params api.PageParams
}

// NewListView creates a view over items showing pageSize items per page
func NewListView[T any](items []T, fields func(T) []string, pageSize int) *ListView[T] {
	return &ListView[T]{
		items:  items,
		fields: fields,
		params: api.PageParams{PageNumber: 1, PageSize: pageSize}.Normalize(),
	}
}

// NewInquiryListView is the inquiry list screen: newest first, matched on
// the display fields.
func NewInquiryListView(items []api.Inquiry, pageSize int) *ListView[api.Inquiry] {
	return NewListView(items, api.Inquiry.SearchFields, pageSize).NewestFirst(
		func(i api.Inquiry) time.Time { return i.CreatedAt },
		func(i api.Inquiry) uint { return i.ID },
	)
}

// NewestFirst orders the collection by creation time descending, ties
// broken by the higher id. The order is kept across SetItems.
func (v *ListView[T]) NewestFirst(createdAt func(T) time.Time, id func(T) uint) *ListView[T] {
	v.order = func(items []T) { paging.SortNewestFirst(items, createdAt, id) }
	v.SetItems(v.items)
	return v
}

// SetItems replaces the collection, keeping the term and page. The caller's
// slice is never reordered.
func (v *ListView[T]) SetItems(items []T) {
	if v.order == nil {
		v.items = items
		return
	}
	v.items = slices.Clone(items)
	v.order(v.items)
}

// Search sets the search term; a different term resets to page 1
func (v *ListView[T]) Search(term string) {
	term = strings.TrimSpace(term)
	if term != v.term {
		v.term = term
		v.params.PageNumber = 1
	}
}

// GoTo selects page n, clamped to the valid range
func (v *ListView[T]) GoTo(n int) {
	v.params.PageNumber = n
	if last := v.Page().TotalPages; n > last && last > 0 {
		v.params.PageNumber = last
	}
	v.params = v.params.Normalize()
}

// Term is the current search term
func (v *ListView[T]) Term() string {
	return v.term
}

// Page returns the current page of matching items
func (v *ListView[T]) Page() api.Page[T] {
	return paging.Apply(v.items, v.term, v.fields, v.params)
}
