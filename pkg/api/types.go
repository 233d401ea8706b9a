// Package api holds the JSON request and response bodies exchanged between
// the HTTP server and its clients.
package api

import (
	"strings"
	"time"
	"unicode"

	"talentdesk/internal/domain"
)

// InquirySubmission is the public contact form
type InquirySubmission struct {
	FullName string  `json:"fullName" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Company  *string `json:"company,omitempty" validate:"omitempty,max=200"`
	Subject  string  `json:"subject" validate:"required,max=200"`
	Content  string  `json:"content" validate:"required,max=5000"`
}

// Normalize trims every field, lower-cases the email and drops a blank
// company. Single-line fields have inner line breaks folded into spaces.
func (s *InquirySubmission) Normalize() {
	s.FullName = singleLine(s.FullName)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Subject = singleLine(s.Subject)
	s.Content = strings.TrimSpace(s.Content)
	if s.Company != nil {
		company := singleLine(*s.Company)
		if company == "" {
			s.Company = nil
		} else {
			s.Company = &company
		}
	}
}

func singleLine(v string) string {
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}), " ")
}

// Inquiry is the read-side projection of a contact inquiry
type Inquiry struct {
	ID             uint          `json:"id"`
	Reference      string        `json:"reference"`
	FullName       string        `json:"fullName"`
	Email          string        `json:"email"`
	Company        *string       `json:"company,omitempty"`
	Subject        string        `json:"subject"`
	Content        string        `json:"content"`
	Status         InquiryStatus `json:"status"`
	AssignedTo     *uint         `json:"assignedTo,omitempty"`
	AssignedToName *string       `json:"assignedToName,omitempty"`
	ContactedAt    *time.Time    `json:"contactedAt,omitempty"`
	ContactedBy    *uint         `json:"contactedBy,omitempty"`
	ResponseNotes  *string       `json:"responseNotes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      *time.Time    `json:"updatedAt,omitempty"`
}

// NewInquiry converts the stored model to its wire form
func NewInquiry(inq *domain.ContactInquiry) Inquiry {
	return Inquiry{
		ID:             inq.ID,
		Reference:      inq.Reference.String(),
		FullName:       inq.FullName,
		Email:          inq.Email,
		Company:        inq.Company,
		Subject:        inq.Subject,
		Content:        inq.Content,
		Status:         inq.Status,
		AssignedTo:     inq.AssignedTo,
		AssignedToName: inq.AssignedToName,
		ContactedAt:    inq.ContactedAt,
		ContactedBy:    inq.ContactedBy,
		ResponseNotes:  inq.ResponseNotes,
		CreatedAt:      inq.CreatedAt,
		UpdatedAt:      inq.UpdatedAt,
	}
}

// SearchFields returns the display fields matched by free-text search.
func (i Inquiry) SearchFields() []string {
	fields := []string{i.FullName, i.Email, i.Subject}
	if i.Company != nil {
		fields = append(fields, *i.Company)
	}
	return fields
}

// ClaimResult reports the outcome of a claim. A lost race or an inquiry
// that is no longer claimable yields IsSuccess=false with a message.
type ClaimResult struct {
	IsSuccess      bool    `json:"isSuccess"`
	Message        string  `json:"message"`
	InquiryID      uint    `json:"inquiryId"`
	AssignedTo     *uint   `json:"assignedTo,omitempty"`
	AssignedToName *string `json:"assignedToName,omitempty"`
}

// ChangeStatusRequest moves an inquiry to a new status
type ChangeStatusRequest struct {
	NewStatus     InquiryStatus `json:"newStatus" validate:"required"`
	ResponseNotes *string       `json:"responseNotes,omitempty" validate:"omitempty,max=5000"`
}

// ChangeStatusResult reports the outcome of a status change
type ChangeStatusResult struct {
	IsSuccess        bool           `json:"isSuccess"`
	Message          string         `json:"message"`
	OldStatus        *InquiryStatus `json:"oldStatus,omitempty"`
	NewStatus        *InquiryStatus `json:"newStatus,omitempty"`
	ValidationErrors []string       `json:"validationErrors,omitempty"`
}

// HistoryEntry is one audited claim or status change
type HistoryEntry struct {
	ID        uint           `json:"id"`
	Action    string         `json:"action"`
	OldStatus *InquiryStatus `json:"oldStatus,omitempty"`
	NewStatus InquiryStatus  `json:"newStatus"`
	ChangedBy uint           `json:"changedBy"`
	Notes     *string        `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewHistoryEntry converts a stored history row
func NewHistoryEntry(h *domain.InquiryStatusHistory) HistoryEntry {
	return HistoryEntry{
		ID:        h.ID,
		Action:    h.Action,
		OldStatus: h.OldStatus,
		NewStatus: h.NewStatus,
		ChangedBy: h.ChangedBy,
		Notes:     h.Notes,
		CreatedAt: h.CreatedAt,
	}
}

// LoginRequest carries credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued access token
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// User is the wire form of a back-office account
type User struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  *string    `json:"full_name,omitempty"`
	IsActive  bool       `json:"is_active"`
	IsAdmin   bool       `json:"is_admin"`
	IsStaff   bool       `json:"is_staff"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// NewUser converts the stored account, omitting the password hash
func NewUser(u *domain.User) User {
	out := User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
	if u.UpdatedAt.After(u.CreatedAt) {
		updated := u.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

// CreateUserRequest provisions an account
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
	IsAdmin  bool    `json:"is_admin"`
	IsStaff  bool    `json:"is_staff"`
}

// UpdateUserRequest changes only the supplied fields
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
	IsStaff  *bool   `json:"is_staff,omitempty"`
}

// LookupItem is the wire form of a reference-data entry
type LookupItem struct {
	ID          uint       `json:"id"`
	Kind        LookupKind `json:"kind"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewLookupItem converts a stored lookup entry
func NewLookupItem(l *domain.LookupItem) LookupItem {
	return LookupItem{
		ID:          l.ID,
		Kind:        l.Kind,
		Name:        l.Name,
		Description: l.Description,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// LookupRequest creates or replaces a lookup entry
type LookupRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Health is the health check body
type Health struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// ErrorBody is written for every failed request
type ErrorBody struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
