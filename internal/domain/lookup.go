package domain

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// LookupKind names a catalog of reference data edited in the back office.
type LookupKind string

const (
	LookupCertificateType LookupKind = "certificate-types"
	LookupDocumentType    LookupKind = "document-types"
	LookupSkillGroup      LookupKind = "skill-groups"
	LookupLocation        LookupKind = "locations"
	LookupJobRole         LookupKind = "job-roles"
	LookupJobLevel        LookupKind = "job-levels"
	LookupPositionType    LookupKind = "position-types"
)

var lookupKinds = []LookupKind{
	LookupCertificateType,
	LookupDocumentType,
	LookupSkillGroup,
	LookupLocation,
	LookupJobRole,
	LookupJobLevel,
	LookupPositionType,
}

// LookupKinds returns every known catalog kind.
func LookupKinds() []LookupKind {
	out := make([]LookupKind, len(lookupKinds))
	copy(out, lookupKinds)
	return out
}

// ParseLookupKind validates a kind taken from a URL path.
func ParseLookupKind(s string) (LookupKind, error) {
	for _, k := range lookupKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown lookup kind %q", s)
}

// LookupItem is one entry of a reference-data catalog
type LookupItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Kind        LookupKind `gorm:"type:varchar(40);not null;uniqueIndex:idx_lookup_kind_name" json:"kind"`
	Name        string     `gorm:"not null;uniqueIndex:idx_lookup_kind_name" json:"name"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for LookupItem
func (LookupItem) TableName() string {
	return "lookup_items"
}

// BeforeCreate hook
func (l *LookupItem) BeforeCreate(tx *gorm.DB) error {
	l.CreatedAt = tx.NowFunc()
	l.UpdatedAt = l.CreatedAt
	return nil
}

// BeforeUpdate hook
func (l *LookupItem) BeforeUpdate(tx *gorm.DB) error {
	l.UpdatedAt = tx.NowFunc()
	return nil
}

// SearchFields returns the display fields matched by free-text search.
func (l LookupItem) SearchFields() []string {
	fields := []string{l.Name}
	if l.Description != nil {
		fields = append(fields, *l.Description)
	}
	return fields
}
