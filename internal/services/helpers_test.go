package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"talentdesk/internal/config"
	"talentdesk/internal/database"
	"talentdesk/internal/domain"
	"talentdesk/internal/util"
	"talentdesk/pkg/api"
)

const testPassword = "correct-horse-battery"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := database.Open(&config.DatabaseConfig{URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func seedUser(t *testing.T, db *gorm.DB, username string, staff, admin bool) *domain.User {
	t.Helper()
	hash, err := util.HashPassword(testPassword)
	require.NoError(t, err)
	fullName := username + " Staff"
	user := &domain.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: hash,
		FullName:       &fullName,
		IsActive:       true,
		IsStaff:        staff,
		IsAdmin:        admin,
	}
	require.NoError(t, db.Select("*").Omit("id").Create(user).Error)
	return user
}

func seedInquiry(t *testing.T, svc *ContactService, name string) *domain.ContactInquiry {
	t.Helper()
	inq, err := svc.Submit(t.Context(), &api.InquirySubmission{
		FullName: name,
		Email:    "client@example.com",
		Subject:  "Staffing request",
		Content:  "We need three backend engineers.",
	})
	require.NoError(t, err)
	return inq
}

func ptr[T any](v T) *T {
	return &v
}
