package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactInquiry represents a contact form submission tracked through the
// claim/response workflow
type ContactInquiry struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Reference      uuid.UUID      `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	FullName       string         `gorm:"not null" json:"fullName"`
	Email          string         `gorm:"not null;index" json:"email"`
	Company        *string        `json:"company,omitempty"`
	Subject        string         `gorm:"not null" json:"subject"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Status         InquiryStatus  `gorm:"type:integer;not null;default:1;index" json:"status"`
	AssignedTo     *uint          `gorm:"index" json:"assignedTo,omitempty"`
	AssignedToName *string        `json:"assignedToName,omitempty"`
	ContactedAt    *time.Time     `json:"contactedAt,omitempty"`
	ContactedBy    *uint          `json:"contactedBy,omitempty"`
	ResponseNotes  *string        `gorm:"type:text" json:"responseNotes,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for ContactInquiry
func (ContactInquiry) TableName() string {
	return "contact_inquiries"
}

// BeforeCreate forces the initial lifecycle state: New and unassigned.
func (c *ContactInquiry) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = tx.NowFunc()
	c.Status = StatusNew
	c.AssignedTo = nil
	c.AssignedToName = nil
	c.ContactedAt = nil
	c.ContactedBy = nil
	if c.Reference == uuid.Nil {
		c.Reference = uuid.New()
	}
	return nil
}

// BeforeUpdate hook
func (c *ContactInquiry) BeforeUpdate(tx *gorm.DB) error {
	now := tx.NowFunc()
	c.UpdatedAt = &now
	return nil
}

// IsAssigned reports whether a staff member owns the inquiry.
func (c *ContactInquiry) IsAssigned() bool {
	return c.AssignedTo != nil
}

// IsAssignedTo reports whether userID is the current assignee.
func (c *ContactInquiry) IsAssignedTo(userID uint) bool {
	return c.AssignedTo != nil && *c.AssignedTo == userID
}

// Claimable reports whether the inquiry can still be claimed.
func (c *ContactInquiry) Claimable() bool {
	return c.Status == StatusNew && !c.IsAssigned()
}

// SearchFields returns the display fields matched by free-text search.
func (c ContactInquiry) SearchFields() []string {
	fields := []string{c.FullName, c.Email, c.Subject}
	if c.Company != nil {
		fields = append(fields, *c.Company)
	}
	return fields
}
