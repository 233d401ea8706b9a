package api

import (
	"talentdesk/internal/domain"
	"talentdesk/internal/paging"
)

// InquiryStatus is the lifecycle state of an inquiry: "New", "InProgress"
// or "Closed" on the wire.
type InquiryStatus = domain.InquiryStatus

const (
	StatusNew        = domain.StatusNew
	StatusInProgress = domain.StatusInProgress
	StatusClosed     = domain.StatusClosed
)

// AllowedTransitions lists the statuses an inquiry in s may move to.
func AllowedTransitions(s InquiryStatus) []InquiryStatus {
	return domain.AllowedTransitions(s)
}

// LookupKind names a reference-data catalog in the lookup routes.
type LookupKind = domain.LookupKind

const (
	LookupCertificateType = domain.LookupCertificateType
	LookupDocumentType    = domain.LookupDocumentType
	LookupSkillGroup      = domain.LookupSkillGroup
	LookupLocation        = domain.LookupLocation
	LookupJobRole         = domain.LookupJobRole
	LookupJobLevel        = domain.LookupJobLevel
	LookupPositionType    = domain.LookupPositionType
)

// Page is the envelope returned by every list endpoint.
type Page[T any] = paging.Page[T]

// PageParams selects one page of a list.
type PageParams = paging.Params
