package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentdesk/internal/domain"
	"talentdesk/internal/paging"
	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

func TestLookupService_CRUD(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "root", true, true).Actor()
	staff := seedUser(t, db, "alice", true, false).Actor()
	svc := NewLookupService(db, time.Minute)
	t.Cleanup(svc.Close)

	_, err := svc.Create(t.Context(), domain.LookupSkillGroup, &api.LookupRequest{Name: "Backend"}, staff)
	assert.True(t, apperrors.IsForbidden(err))

	for _, name := range []string{"Backend", "Frontend", "Data Engineering"} {
		_, err := svc.Create(t.Context(), domain.LookupSkillGroup, &api.LookupRequest{Name: name}, admin)
		require.NoError(t, err)
	}
	_, err = svc.Create(t.Context(), domain.LookupLocation, &api.LookupRequest{Name: "Backend"}, admin)
	require.NoError(t, err, "names are unique per kind only")

	_, err = svc.Create(t.Context(), domain.LookupSkillGroup, &api.LookupRequest{Name: " backend "}, admin)
	require.True(t, apperrors.IsConflict(err))

	page, err := svc.List(t.Context(), domain.LookupSkillGroup, "", paging.Params{PageNumber: 1, PageSize: 2}, staff)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(t.Context(), domain.LookupSkillGroup, "END", paging.Params{}, staff)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)

	item := page.Items[0]
	updated, err := svc.Update(t.Context(), domain.LookupSkillGroup, item.ID, &api.LookupRequest{Name: "Platform", IsActive: ptr(false)}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Platform", updated.Name)
	assert.False(t, updated.IsActive)

	page, err = svc.List(t.Context(), domain.LookupSkillGroup, "platform", paging.Params{}, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount, "writes invalidate the cached list")

	require.NoError(t, svc.Delete(t.Context(), domain.LookupSkillGroup, item.ID, admin))
	_, err = svc.Get(t.Context(), domain.LookupSkillGroup, item.ID, staff)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(svc.Delete(t.Context(), domain.LookupSkillGroup, item.ID, admin)))
}

func TestLookupService_GetIsScopedToKind(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "root", true, true).Actor()
	svc := NewLookupService(db, 0)

	item, err := svc.Create(t.Context(), domain.LookupJobRole, &api.LookupRequest{Name: "Tech Lead"}, admin)
	require.NoError(t, err)
	assert.True(t, item.IsActive)

	_, err = svc.Get(t.Context(), domain.LookupJobLevel, item.ID, admin)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Create(t.Context(), domain.LookupJobRole, &api.LookupRequest{Name: "  "}, admin)
	assert.True(t, apperrors.IsValidation(err))
}
