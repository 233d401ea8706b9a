package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"talentdesk/internal/domain"
	"talentdesk/internal/paging"
	apperrors "talentdesk/pkg/errors"
)

// InquiryQuery holds the server-side filters of the inquiry list. Query
// parameter names follow the public contract (FullName, Status, ...).
type InquiryQuery struct {
	FullName       string
	Email          string
	Company        string
	Subject        string
	Status         *InquiryStatus
	AssignedTo     *uint
	CreatedAtFrom  *time.Time
	CreatedAtTo    *time.Time
	ExcludeDeleted bool
	paging.Params
}

// DefaultInquiryQuery excludes soft-deleted inquiries
func DefaultInquiryQuery() InquiryQuery {
	return InquiryQuery{ExcludeDeleted: true}
}

// Values encodes q as URL query parameters
func (q InquiryQuery) Values() url.Values {
	v := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	setIf("FullName", q.FullName)
	setIf("Email", q.Email)
	setIf("Company", q.Company)
	setIf("Subject", q.Subject)
	if q.Status != nil {
		v.Set("Status", string(*q.Status))
	}
	if q.AssignedTo != nil {
		v.Set("AssignedTo", strconv.FormatUint(uint64(*q.AssignedTo), 10))
	}
	if q.CreatedAtFrom != nil {
		v.Set("CreatedAtFrom", q.CreatedAtFrom.Format(time.RFC3339))
	}
	if q.CreatedAtTo != nil {
		v.Set("CreatedAtTo", q.CreatedAtTo.Format(time.RFC3339))
	}
	v.Set("ExcludeDeleted", strconv.FormatBool(q.ExcludeDeleted))
	if q.PageNumber > 0 {
		v.Set("PageNumber", strconv.Itoa(q.PageNumber))
	}
	if q.PageSize > 0 {
		v.Set("PageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

// ParseInquiryQuery decodes the list filters. Unknown parameters are ignored;
// malformed ones produce a VALIDATION_ERROR naming the parameter.
func ParseInquiryQuery(v url.Values) (InquiryQuery, error) {
	q := DefaultInquiryQuery()
	q.FullName = strings.TrimSpace(v.Get("FullName"))
	q.Email = strings.TrimSpace(v.Get("Email"))
	q.Company = strings.TrimSpace(v.Get("Company"))
	q.Subject = strings.TrimSpace(v.Get("Subject"))

	if s := v.Get("Status"); s != "" {
		st, err := domain.ParseInquiryStatus(s)
		if err != nil {
			return q, apperrors.Validation("Status", err.(*apperrors.AppError).Message)
		}
		q.Status = &st
	}
	if s := v.Get("AssignedTo"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return q, apperrors.Validation("AssignedTo", "AssignedTo must be a user id")
		}
		assigned := uint(id)
		q.AssignedTo = &assigned
	}
	var err error
	if q.CreatedAtFrom, err = parseTimeParam(v, "CreatedAtFrom"); err != nil {
		return q, err
	}
	if q.CreatedAtTo, err = parseTimeParam(v, "CreatedAtTo"); err != nil {
		return q, err
	}
	// A plain upper date covers that whole day.
	if q.CreatedAtTo != nil && !strings.Contains(v.Get("CreatedAtTo"), "T") {
		end := q.CreatedAtTo.Add(24*time.Hour - time.Nanosecond)
		q.CreatedAtTo = &end
	}
	if s := v.Get("ExcludeDeleted"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, apperrors.Validation("ExcludeDeleted", "ExcludeDeleted must be true or false")
		}
		q.ExcludeDeleted = b
	}
	params, err := ParsePageParams(v)
	if err != nil {
		return q, err
	}
	q.Params = params
	return q, nil
}

// ParsePageParams reads PageNumber and PageSize and normalises them
func ParsePageParams(v url.Values) (PageParams, error) {
	var p PageParams
	for key, dst := range map[string]*int{"PageNumber": &p.PageNumber, "PageSize": &p.PageSize} {
		s := v.Get(key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, apperrors.Validation(key, key+" must be an integer")
		}
		if key == "PageNumber" && n > paging.MaxPageNumber {
			return p, apperrors.Validation(key, fmt.Sprintf("PageNumber must not exceed %d", paging.MaxPageNumber))
		}
		*dst = n
	}
	return p.Normalize(), nil
}

// parseTimeParam accepts RFC 3339 timestamps or plain dates.
func parseTimeParam(v url.Values, key string) (*time.Time, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation(key, key+" must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}
