package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentdesk/internal/domain"
	"talentdesk/internal/paging"
	apperrors "talentdesk/pkg/errors"
)

func validSubmission() InquirySubmission {
	return InquirySubmission{
		FullName: "Nguyen Van A",
		Email:    "a@example.com",
		Subject:  "Hợp tác",
		Content:  "Chúng tôi muốn hợp tác tuyển dụng.",
	}
}

func TestValidate_Submission(t *testing.T) {
	s := validSubmission()
	assert.NoError(t, Validate(&s))

	s.Email = "not-an-email"
	err := Validate(&s)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "email", appErr.Field)
	assert.Equal(t, "invalid email address", appErr.Message)

	s = validSubmission()
	s.Subject = ""
	appErr, _ = apperrors.As(Validate(&s))
	assert.Equal(t, "subject", appErr.Field)
	assert.Equal(t, "subject is required", appErr.Message)
}

func TestInquirySubmission_Normalize(t *testing.T) {
	blank := "   "
	s := InquirySubmission{FullName: "  An  ", Email: " A@Example.COM ", Company: &blank}
	s.Normalize()
	assert.Equal(t, "An", s.FullName)
	assert.Equal(t, "a@example.com", s.Email)
	assert.Nil(t, s.Company)
}

func TestInquirySubmission_NormalizeFoldsLineBreaks(t *testing.T) {
	company := "Acme\r\nCorp"
	s := InquirySubmission{
		FullName: "Nguyen\nVan A",
		Subject:  " Hợp tác\r\nBcc: victim@evil.example ",
		Company:  &company,
		Content:  "line one\r\nline two",
	}
	s.Normalize()
	assert.Equal(t, "Nguyen Van A", s.FullName)
	assert.Equal(t, "Hợp tác Bcc: victim@evil.example", s.Subject)
	assert.Equal(t, "Acme Corp", *s.Company)
	assert.Equal(t, "line one\r\nline two", s.Content)
}

func TestInquiryQuery_RoundTrip(t *testing.T) {
	st := domain.StatusInProgress
	assigned := uint(5)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q := InquiryQuery{
		FullName:       "nguyen",
		Status:         &st,
		AssignedTo:     &assigned,
		CreatedAtFrom:  &from,
		ExcludeDeleted: true,
		Params:         paging.Params{PageNumber: 2, PageSize: 20},
	}

	parsed, err := ParseInquiryQuery(q.Values())
	require.NoError(t, err)
	assert.Equal(t, "nguyen", parsed.FullName)
	assert.Equal(t, domain.StatusInProgress, *parsed.Status)
	assert.Equal(t, uint(5), *parsed.AssignedTo)
	assert.True(t, from.Equal(*parsed.CreatedAtFrom))
	assert.True(t, parsed.ExcludeDeleted)
	assert.Equal(t, 2, parsed.PageNumber)
	assert.Equal(t, 20, parsed.PageSize)
}

func TestParseInquiryQuery_Errors(t *testing.T) {
	cases := map[string]url.Values{
		"Status":         {"Status": {"1"}},
		"AssignedTo":     {"AssignedTo": {"bob"}},
		"CreatedAtTo":    {"CreatedAtTo": {"yesterday"}},
		"PageSize":       {"PageSize": {"ten"}},
		"PageNumber":     {"PageNumber": {"92233720368547760"}, "PageSize": {"100"}},
		"ExcludeDeleted": {"ExcludeDeleted": {"maybe"}},
	}
	for field, values := range cases {
		_, err := ParseInquiryQuery(values)
		appErr, ok := apperrors.As(err)
		require.True(t, ok, field)
		assert.Equal(t, field, appErr.Field)
	}
}

func TestParseInquiryQuery_Defaults(t *testing.T) {
	q, err := ParseInquiryQuery(url.Values{"CreatedAtTo": {"2026-02-01"}})
	require.NoError(t, err)
	assert.True(t, q.ExcludeDeleted)
	assert.Equal(t, 1, q.PageNumber)
	assert.Equal(t, paging.DefaultPageSize, q.PageSize)
	assert.Equal(t, 2026, q.CreatedAtTo.Year())
	assert.Equal(t, 1, q.CreatedAtTo.Day())
	assert.Equal(t, 23, q.CreatedAtTo.Hour())
}
