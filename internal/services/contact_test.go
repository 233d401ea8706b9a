package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"talentdesk/internal/domain"
	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

func TestContactService_SubmitCreatesNewUnassignedInquiry(t *testing.T) {
	svc := NewContactService(newTestDB(t), nil)

	inq, err := svc.Submit(t.Context(), &api.InquirySubmission{
		FullName: "  Tran Thi B ",
		Email:    "B.Tran@Example.com",
		Company:  ptr("   "),
		Subject:  "Hiring",
		Content:  "Looking for a QA lead",
	})
	require.NoError(t, err)

	assert.NotZero(t, inq.ID)
	assert.Equal(t, domain.StatusNew, inq.Status)
	assert.Nil(t, inq.AssignedTo)
	assert.Nil(t, inq.Company)
	assert.Equal(t, "Tran Thi B", inq.FullName)
	assert.Equal(t, "b.tran@example.com", inq.Email)
	assert.False(t, inq.CreatedAt.IsZero())
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", inq.Reference.String())
}

func TestContactService_SubmitRejectsInvalidEmail(t *testing.T) {
	svc := NewContactService(newTestDB(t), nil)

	_, err := svc.Submit(t.Context(), &api.InquirySubmission{
		FullName: "Le Van C",
		Email:    "not-an-email",
		Subject:  "Hi",
		Content:  "Hello",
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "email", appErr.Field)
}

func TestContactService_SubmitNotifiesAsynchronously(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := NewMockNotifier(ctrl)
	svc := NewContactService(newTestDB(t), notifier)

	done := make(chan struct{})
	svc.notified = func() { close(done) }

	notifier.EXPECT().
		NotifyNewInquiry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inq *domain.ContactInquiry) error {
			assert.Equal(t, "Pham D", inq.FullName)
			return errors.New("smtp unavailable")
		})

	inq := seedInquiry(t, svc, "Pham D")
	assert.NotZero(t, inq.ID)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestContactService_ClaimAssignsAndMovesToInProgress(t *testing.T) {
	db := newTestDB(t)
	staff := seedUser(t, db, "alice", true, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	res, err := svc.Claim(t.Context(), inq.ID, staff.Actor())
	require.NoError(t, err)
	assert.True(t, res.IsSuccess)
	require.NotNil(t, res.AssignedTo)
	assert.Equal(t, staff.ID, *res.AssignedTo)
	assert.Equal(t, "alice Staff", *res.AssignedToName)

	got, err := svc.Get(t.Context(), inq.ID, staff.Actor())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.True(t, got.IsAssignedTo(staff.ID))
	assert.NotNil(t, got.ContactedAt)
}

func TestContactService_ClaimTwiceFails(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice", true, false)
	bob := seedUser(t, db, "bob", true, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	first, err := svc.Claim(t.Context(), inq.ID, alice.Actor())
	require.NoError(t, err)
	require.True(t, first.IsSuccess)

	second, err := svc.Claim(t.Context(), inq.ID, bob.Actor())
	require.NoError(t, err)
	assert.False(t, second.IsSuccess)
	assert.Equal(t, msgAlreadyClaimed, second.Message)
	assert.Equal(t, alice.ID, *second.AssignedTo)
}

func TestContactService_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Contested Client")

	const contenders = 8
	actors := make([]domain.Actor, contenders)
	for i := range actors {
		actors[i] = seedUser(t, db, "staff"+string(rune('a'+i)), true, false).Actor()
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []uint
	)
	for _, actor := range actors {
		wg.Add(1)
		go func(a domain.Actor) {
			defer wg.Done()
			res, err := svc.Claim(t.Context(), inq.ID, a)
			if !assert.NoError(t, err) {
				return
			}
			if res.IsSuccess {
				mu.Lock()
				winners = append(winners, a.UserID)
				mu.Unlock()
			}
		}(actor)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	got, err := svc.Get(t.Context(), inq.ID, actors[0])
	require.NoError(t, err)
	assert.Equal(t, winners[0], *got.AssignedTo)

	history, err := svc.History(t.Context(), inq.ID, actors[0])
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestContactService_ClaimNotFound(t *testing.T) {
	db := newTestDB(t)
	staff := seedUser(t, db, "alice", true, false)
	svc := NewContactService(db, nil)

	_, err := svc.Claim(t.Context(), 999, staff.Actor())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestContactService_ClaimClosedInquiryIsRejected(t *testing.T) {
	db := newTestDB(t)
	staff := seedUser(t, db, "alice", true, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	_, err := svc.ChangeStatus(t.Context(), inq.ID, &api.ChangeStatusRequest{NewStatus: domain.StatusClosed}, staff.Actor())
	require.NoError(t, err)

	other := seedUser(t, db, "bob", true, false)
	res, err := svc.Claim(t.Context(), inq.ID, other.Actor())
	require.NoError(t, err)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, msgNotClaimable, res.Message)
}

func TestContactService_RequiresStaff(t *testing.T) {
	db := newTestDB(t)
	outsider := seedUser(t, db, "viewer", false, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	_, err := svc.Claim(t.Context(), inq.ID, domain.Actor{})
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = svc.Claim(t.Context(), inq.ID, outsider.Actor())
	assert.True(t, apperrors.IsForbidden(err))
}

func TestContactService_ChangeStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		claim   bool
		target  domain.InquiryStatus
		wantErr apperrors.ErrorCode
	}{
		{name: "new to closed", target: domain.StatusClosed},
		{name: "new to in progress", target: domain.StatusInProgress},
		{name: "new to new", target: domain.StatusNew, wantErr: apperrors.ErrCodeInvalidTransition},
		{name: "in progress to closed", claim: true, target: domain.StatusClosed},
		{name: "in progress to new", claim: true, target: domain.StatusNew, wantErr: apperrors.ErrCodeInvalidTransition},
		{name: "in progress to in progress", claim: true, target: domain.StatusInProgress, wantErr: apperrors.ErrCodeInvalidTransition},
		{name: "unknown target", target: domain.InquiryStatus("Archived"), wantErr: apperrors.ErrCodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			staff := seedUser(t, db, "alice", true, false)
			svc := NewContactService(db, nil)
			inq := seedInquiry(t, svc, "Client One")
			if tt.claim {
				res, err := svc.Claim(t.Context(), inq.ID, staff.Actor())
				require.NoError(t, err)
				require.True(t, res.IsSuccess)
			}

			res, err := svc.ChangeStatus(t.Context(), inq.ID, &api.ChangeStatusRequest{NewStatus: tt.target}, staff.Actor())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, apperrors.CodeOf(err))
				require.NotNil(t, res)
				assert.False(t, res.IsSuccess)
				assert.NotEmpty(t, res.ValidationErrors)
				assert.Contains(t, res.Message, string(tt.target))

				got, err := svc.Get(t.Context(), inq.ID, staff.Actor())
				require.NoError(t, err)
				assert.Equal(t, *res.OldStatus, got.Status)
				return
			}

			require.NoError(t, err)
			assert.True(t, res.IsSuccess)
			assert.Equal(t, tt.target, *res.NewStatus)

			got, err := svc.Get(t.Context(), inq.ID, staff.Actor())
			require.NoError(t, err)
			assert.Equal(t, tt.target, got.Status)
			assert.Equal(t, tt.claim, got.IsAssignedTo(staff.ID))
		})
	}
}

func TestContactService_ClosedIsTerminal(t *testing.T) {
	db := newTestDB(t)
	staff := seedUser(t, db, "alice", true, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	_, err := svc.ChangeStatus(t.Context(), inq.ID, &api.ChangeStatusRequest{NewStatus: domain.StatusClosed}, staff.Actor())
	require.NoError(t, err)

	for _, target := range domain.AllStatuses() {
		_, err := svc.ChangeStatus(t.Context(), inq.ID, &api.ChangeStatusRequest{NewStatus: target}, staff.Actor())
		assert.True(t, apperrors.IsInvalidTransition(err), target)
	}

	next, err := svc.AvailableTransitions(t.Context(), inq.ID, staff.Actor())
	require.NoError(t, err)
	assert.Empty(t, next)
}

func TestContactService_ChangeStatusByNonAssigneeIsForbidden(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice", true, false)
	bob := seedUser(t, db, "bob", true, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	_, err := svc.Claim(t.Context(), inq.ID, alice.Actor())
	require.NoError(t, err)

	res, err := svc.ChangeStatus(t.Context(), inq.ID, &api.ChangeStatusRequest{NewStatus: domain.StatusClosed}, bob.Actor())
	assert.Nil(t, res)
	assert.True(t, apperrors.IsForbidden(err))

	got, err := svc.Get(t.Context(), inq.ID, bob.Actor())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
}

func TestContactService_ChangeStatusRecordsNotesAndHistory(t *testing.T) {
	db := newTestDB(t)
	staff := seedUser(t, db, "alice", true, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	_, err := svc.Claim(t.Context(), inq.ID, staff.Actor())
	require.NoError(t, err)
	_, err = svc.ChangeStatus(t.Context(), inq.ID, &api.ChangeStatusRequest{
		NewStatus:     domain.StatusClosed,
		ResponseNotes: ptr("  Sent proposal  "),
	}, staff.Actor())
	require.NoError(t, err)

	got, err := svc.Get(t.Context(), inq.ID, staff.Actor())
	require.NoError(t, err)
	require.NotNil(t, got.ResponseNotes)
	assert.Equal(t, "Sent proposal", *got.ResponseNotes)
	assert.Equal(t, staff.ID, *got.ContactedBy)

	history, err := svc.History(t.Context(), inq.ID, staff.Actor())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.HistoryActionClaim, history[0].Action)
	assert.Equal(t, domain.StatusNew, *history[0].OldStatus)
	assert.Equal(t, domain.HistoryActionChangeStatus, history[1].Action)
	assert.Equal(t, domain.StatusInProgress, *history[1].OldStatus)
	assert.Equal(t, domain.StatusClosed, history[1].NewStatus)
	assert.Equal(t, "Sent proposal", *history[1].Notes)
}

func TestContactService_ChangeStatusDetectsConcurrentChange(t *testing.T) {
	db := newTestDB(t)
	staff := seedUser(t, db, "alice", true, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	// Another writer moves the inquiry after ChangeStatus has read it but
	// before its guarded UPDATE runs.
	table := domain.ContactInquiry{}.TableName()
	fired := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:concurrent_writer", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE "+table+" SET status = ? WHERE id = ?", domain.StatusInProgress, inq.ID).Error)
	}))

	result, err := svc.ChangeStatus(t.Context(), inq.ID, &api.ChangeStatusRequest{
		NewStatus:     domain.StatusClosed,
		ResponseNotes: ptr("too late"),
	}, staff.Actor())
	require.True(t, fired)
	assert.True(t, apperrors.IsConflict(err), "got %v", err)
	assert.Nil(t, result)

	got, err := svc.Get(t.Context(), inq.ID, staff.Actor())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Nil(t, got.ContactedAt)
	assert.Nil(t, got.ResponseNotes)

	history, err := svc.History(t.Context(), inq.ID, staff.Actor())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestContactService_AvailableTransitions(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice", true, false)
	bob := seedUser(t, db, "bob", true, false)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	next, err := svc.AvailableTransitions(t.Context(), inq.ID, alice.Actor())
	require.NoError(t, err)
	assert.Equal(t, []domain.InquiryStatus{domain.StatusInProgress, domain.StatusClosed}, next)

	_, err = svc.Claim(t.Context(), inq.ID, alice.Actor())
	require.NoError(t, err)

	next, err = svc.AvailableTransitions(t.Context(), inq.ID, alice.Actor())
	require.NoError(t, err)
	assert.Equal(t, []domain.InquiryStatus{domain.StatusClosed}, next)

	next, err = svc.AvailableTransitions(t.Context(), inq.ID, bob.Actor())
	require.NoError(t, err)
	assert.Empty(t, next)

	_, err = svc.AvailableTransitions(t.Context(), 424242, alice.Actor())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestContactService_ListFiltersAndPages(t *testing.T) {
	db := newTestDB(t)
	staff := seedUser(t, db, "alice", true, false)
	svc := NewContactService(db, nil)

	for _, name := range []string{"Acme Buyer", "Globex Buyer", "Initech Lead", "Acme Second"} {
		seedInquiry(t, svc, name)
	}
	claimed := seedInquiry(t, svc, "Umbrella Lead")
	_, err := svc.Claim(t.Context(), claimed.ID, staff.Actor())
	require.NoError(t, err)

	q := api.DefaultInquiryQuery()
	q.PageSize = 2
	page, err := svc.List(t.Context(), q, staff.Actor())
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 2)
	assert.False(t, page.HasPreviousPage)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, "Umbrella Lead", page.Items[0].FullName)

	q = api.DefaultInquiryQuery()
	q.FullName = "acme"
	page, err = svc.List(t.Context(), q, staff.Actor())
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)

	inProgress := domain.StatusInProgress
	q = api.DefaultInquiryQuery()
	q.Status = &inProgress
	page, err = svc.List(t.Context(), q, staff.Actor())
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, claimed.ID, page.Items[0].ID)

	q = api.DefaultInquiryQuery()
	q.AssignedTo = &staff.ID
	page, err = svc.List(t.Context(), q, staff.Actor())
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	past := time.Now().Add(-48 * time.Hour)
	q = api.DefaultInquiryQuery()
	q.CreatedAtTo = &past
	page, err = svc.List(t.Context(), q, staff.Actor())
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalCount)
	assert.Empty(t, page.Items)
}

func TestContactService_DeleteIsSoftAndAdminOnly(t *testing.T) {
	db := newTestDB(t)
	staff := seedUser(t, db, "alice", true, false)
	admin := seedUser(t, db, "root", true, true)
	svc := NewContactService(db, nil)
	inq := seedInquiry(t, svc, "Client One")

	err := svc.Delete(t.Context(), inq.ID, staff.Actor())
	assert.True(t, apperrors.IsForbidden(err))

	require.NoError(t, svc.Delete(t.Context(), inq.ID, admin.Actor()))

	_, err = svc.Get(t.Context(), inq.ID, admin.Actor())
	assert.True(t, apperrors.IsNotFound(err))

	q := api.DefaultInquiryQuery()
	page, err := svc.List(t.Context(), q, admin.Actor())
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalCount)

	q.ExcludeDeleted = false
	page, err = svc.List(t.Context(), q, admin.Actor())
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	err = svc.Delete(t.Context(), inq.ID, admin.Actor())
	assert.True(t, apperrors.IsNotFound(err))
}
