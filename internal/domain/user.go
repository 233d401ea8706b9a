package domain

import (
	"time"

	"gorm.io/gorm"
)

// User represents a back-office account
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string     `gorm:"not null" json:"-"`
	FullName       *string    `json:"full_name"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	IsAdmin        bool       `gorm:"default:false" json:"is_admin"`
	IsStaff        bool       `gorm:"default:false" json:"is_staff"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.CreatedAt = tx.NowFunc()
	u.UpdatedAt = u.CreatedAt
	return nil
}

// BeforeUpdate hook
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = tx.NowFunc()
	return nil
}

// DisplayName prefers the full name over the username.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

// Actor returns the identity u acts as in workflow operations.
func (u *User) Actor() Actor {
	return Actor{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		IsAdmin:     u.IsAdmin,
		IsStaff:     u.IsStaff || u.IsAdmin,
	}
}

// Actor is the authenticated identity performing an operation. It is passed
// explicitly to every workflow call.
type Actor struct {
	UserID      uint
	Username    string
	DisplayName string
	IsAdmin     bool
	IsStaff     bool
}

// Authenticated reports whether a is a real session identity.
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}
