package services

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"talentdesk/internal/domain"
	"talentdesk/internal/metrics"
	"talentdesk/internal/paging"
	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

// SubmitThanks is returned to the public form after a successful submission
const SubmitThanks = "Thank you for contacting us! We'll get back to you soon."

const (
	msgClaimed        = "Inquiry claimed successfully"
	msgAlreadyClaimed = "Inquiry has already been claimed by another staff member"
	msgNotClaimable   = "Only new, unassigned inquiries can be claimed"
	msgStatusChanged  = "Status updated successfully"
)

// ContactService owns the contact inquiry lifecycle
type ContactService struct {
	db       *gorm.DB
	notifier Notifier
	// notified is called after each asynchronous notification finishes
	notified func()
}

// NewContactService creates a new contact service. notifier may be nil.
func NewContactService(db *gorm.DB, notifier Notifier) *ContactService {
	return &ContactService{
		db:       db,
		notifier: notifier,
	}
}

// Submit records a public contact form submission. The new inquiry is
// always New and unassigned.
func (s *ContactService) Submit(ctx context.Context, p *api.InquirySubmission) (*domain.ContactInquiry, error) {
	p.Normalize()
	log.Printf("[CONTACT] Submit request: name=%s, email=%s", p.FullName, p.Email)

	if err := api.Validate(p); err != nil {
		log.Printf("[CONTACT] Submit failed: validation error: %v", err)
		return nil, err
	}

	inquiry := &domain.ContactInquiry{
		FullName: p.FullName,
		Email:    p.Email,
		Company:  p.Company,
		Subject:  p.Subject,
		Content:  p.Content,
	}
	if err := s.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return nil, internal("CONTACT", "failed to save contact inquiry", err)
	}

	log.Printf("[CONTACT] Submit successful: id=%d, reference=%s", inquiry.ID, inquiry.Reference)
	metrics.RecordContactSubmission()

	if s.notifier != nil {
		snapshot := *inquiry
		notifyAsync(s.notifier, &snapshot, s.notified)
	}
	return inquiry, nil
}

// List returns one page of inquiries matching q, newest first
func (s *ContactService) List(ctx context.Context, q api.InquiryQuery, actor domain.Actor) (paging.Page[domain.ContactInquiry], error) {
	if err := requireStaff(actor); err != nil {
		return paging.Page[domain.ContactInquiry]{}, err
	}
	params := q.Params.Normalize()
	log.Printf("[CONTACT] List request: page=%d, size=%d, by=%s", params.PageNumber, params.PageSize, actor.Username)

	query := s.db.WithContext(ctx).Model(&domain.ContactInquiry{})
	if !q.ExcludeDeleted {
		query = query.Unscoped()
	}
	query = applyInquiryFilters(query, q)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return paging.Page[domain.ContactInquiry]{}, internal("CONTACT", "failed to count contact inquiries", err)
	}

	var inquiries []domain.ContactInquiry
	if err := query.Order("created_at DESC, id DESC").Offset(params.Offset()).Limit(params.PageSize).Find(&inquiries).Error; err != nil {
		return paging.Page[domain.ContactInquiry]{}, internal("CONTACT", "failed to fetch contact inquiries", err)
	}

	log.Printf("[CONTACT] List successful: returned %d of %d inquiries", len(inquiries), total)
	return paging.NewPage(inquiries, int(total), params), nil
}

func applyInquiryFilters(query *gorm.DB, q api.InquiryQuery) *gorm.DB {
	like := func(column, term string) {
		if term != "" {
			query = query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
		}
	}
	like("full_name", q.FullName)
	like("email", q.Email)
	like("COALESCE(company, '')", q.Company)
	like("subject", q.Subject)

	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *q.AssignedTo)
	}
	if q.CreatedAtFrom != nil {
		query = query.Where("created_at >= ?", q.CreatedAtFrom.UTC())
	}
	if q.CreatedAtTo != nil {
		query = query.Where("created_at <= ?", q.CreatedAtTo.UTC())
	}
	return query
}

// Get loads one inquiry
func (s *ContactService) Get(ctx context.Context, id uint, actor domain.Actor) (*domain.ContactInquiry, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.load(s.db.WithContext(ctx), id)
}

func (s *ContactService) load(tx *gorm.DB, id uint) (*domain.ContactInquiry, error) {
	var inquiry domain.ContactInquiry
	if err := tx.First(&inquiry, id).Error; err != nil {
		return nil, lookupErr("CONTACT", "contact inquiry", id, err)
	}
	return &inquiry, nil
}

// Claim assigns a New, unassigned inquiry to actor and moves it to
// InProgress. When the inquiry is no longer claimable, including when a
// concurrent claim won, the result has IsSuccess=false and nothing changes.
func (s *ContactService) Claim(ctx context.Context, id uint, actor domain.Actor) (*api.ClaimResult, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	log.Printf("[CONTACT] Claim request: id=%d, by=%s", id, actor.Username)

	result := &api.ClaimResult{InquiryID: id}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inquiry, err := s.load(tx, id)
		if err != nil {
			return err
		}
		if !inquiry.Claimable() {
			result.Message = msgNotClaimable
			if inquiry.IsAssigned() {
				result.Message = msgAlreadyClaimed
			}
			result.AssignedTo = inquiry.AssignedTo
			result.AssignedToName = inquiry.AssignedToName
			return nil
		}

		now := tx.NowFunc()
		res := tx.Model(&domain.ContactInquiry{}).
			Where("id = ? AND status = ? AND assigned_to IS NULL", id, domain.StatusNew).
			Updates(map[string]any{
				"status":           domain.StatusInProgress,
				"assigned_to":      actor.UserID,
				"assigned_to_name": actor.DisplayName,
				"contacted_at":     now,
				"contacted_by":     actor.UserID,
				"updated_at":       now,
			})
		if res.Error != nil {
			return internal("CONTACT", "failed to claim contact inquiry", res.Error)
		}
		if res.RowsAffected != 1 {
			result.Message = msgAlreadyClaimed
			return nil
		}

		old := domain.StatusNew
		if err := recordHistory(tx, &domain.InquiryStatusHistory{
			InquiryID: id,
			OldStatus: &old,
			NewStatus: domain.StatusInProgress,
			ChangedBy: actor.UserID,
			Action:    domain.HistoryActionClaim,
		}); err != nil {
			return err
		}

		assignedTo, assignedName := actor.UserID, actor.DisplayName
		result.IsSuccess = true
		result.Message = msgClaimed
		result.AssignedTo = &assignedTo
		result.AssignedToName = &assignedName
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordClaim(result.IsSuccess)
	if result.IsSuccess {
		metrics.RecordTransition(string(domain.StatusNew), string(domain.StatusInProgress))
		log.Printf("[CONTACT] Claim successful: id=%d, assignee=%s", id, actor.Username)
	} else {
		log.Printf("[CONTACT] Claim rejected: id=%d, by=%s: %s", id, actor.Username, result.Message)
	}
	return result, nil
}

// ChangeStatus moves an inquiry along the transition table without touching
// its assignment. Only the assignee may change an assigned inquiry. On an
// invalid transition the returned result carries the validation message
// alongside the INVALID_TRANSITION error.
func (s *ContactService) ChangeStatus(ctx context.Context, id uint, p *api.ChangeStatusRequest, actor domain.Actor) (*api.ChangeStatusResult, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := api.Validate(p); err != nil {
		return nil, err
	}
	log.Printf("[CONTACT] ChangeStatus request: id=%d, to=%s, by=%s", id, p.NewStatus, actor.Username)

	var result *api.ChangeStatusResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inquiry, err := s.load(tx, id)
		if err != nil {
			return err
		}
		if inquiry.IsAssigned() && !inquiry.IsAssignedTo(actor.UserID) {
			return forbidden("only the assigned staff member can change the status of this inquiry")
		}

		oldStatus := inquiry.Status
		if err := domain.ValidateTransition(oldStatus, p.NewStatus); err != nil {
			msg := err.(*apperrors.AppError).Message
			result = &api.ChangeStatusResult{
				Message:          msg,
				OldStatus:        &oldStatus,
				ValidationErrors: []string{msg},
			}
			return err
		}

		now := tx.NowFunc()
		updates := map[string]any{
			"status":       p.NewStatus,
			"contacted_at": now,
			"contacted_by": actor.UserID,
			"updated_at":   now,
		}
		if notes := trimmedPtr(p.ResponseNotes); notes != nil {
			updates["response_notes"] = *notes
		}

		res := tx.Model(&domain.ContactInquiry{}).
			Where("id = ? AND status = ?", id, oldStatus).
			Updates(updates)
		if res.Error != nil {
			return internal("CONTACT", "failed to update contact inquiry status", res.Error)
		}
		if res.RowsAffected != 1 {
			return conflict("contact inquiry %d was modified concurrently; reload and retry", id)
		}

		if err := recordHistory(tx, &domain.InquiryStatusHistory{
			InquiryID: id,
			OldStatus: &oldStatus,
			NewStatus: p.NewStatus,
			ChangedBy: actor.UserID,
			Action:    domain.HistoryActionChangeStatus,
			Notes:     trimmedPtr(p.ResponseNotes),
		}); err != nil {
			return err
		}

		newStatus := p.NewStatus
		result = &api.ChangeStatusResult{
			IsSuccess: true,
			Message:   msgStatusChanged,
			OldStatus: &oldStatus,
			NewStatus: &newStatus,
		}
		return nil
	})
	if err != nil {
		log.Printf("[CONTACT] ChangeStatus failed: id=%d: %v", id, err)
		if apperrors.IsInvalidTransition(err) {
			return result, err
		}
		return nil, err
	}

	metrics.RecordTransition(string(*result.OldStatus), string(*result.NewStatus))
	log.Printf("[CONTACT] ChangeStatus successful: id=%d, %s -> %s", id, *result.OldStatus, *result.NewStatus)
	return result, nil
}

// AvailableTransitions lists the statuses actor may move the inquiry to.
// Inquiries assigned to someone else have none.
func (s *ContactService) AvailableTransitions(ctx context.Context, id uint, actor domain.Actor) ([]domain.InquiryStatus, error) {
	inquiry, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if inquiry.IsAssigned() && !inquiry.IsAssignedTo(actor.UserID) {
		return []domain.InquiryStatus{}, nil
	}
	return domain.AllowedTransitions(inquiry.Status), nil
}

// History returns the audited claims and status changes, oldest first
func (s *ContactService) History(ctx context.Context, id uint, actor domain.Actor) ([]domain.InquiryStatusHistory, error) {
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}
	var entries []domain.InquiryStatusHistory
	if err := s.db.WithContext(ctx).Where("inquiry_id = ?", id).Order("created_at ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, internal("CONTACT", "failed to load inquiry history", err)
	}
	return entries, nil
}

// Delete soft-deletes an inquiry (admin only)
func (s *ContactService) Delete(ctx context.Context, id uint, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&domain.ContactInquiry{}, id)
	if res.Error != nil {
		return internal("CONTACT", "failed to delete contact inquiry", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("contact inquiry", id)
	}
	log.Printf("[CONTACT] Delete successful: id=%d, by=%s", id, actor.Username)
	return nil
}

func recordHistory(tx *gorm.DB, entry *domain.InquiryStatusHistory) error {
	entry.CreatedAt = tx.NowFunc()
	if err := tx.Create(entry).Error; err != nil {
		return internal("CONTACT", "failed to record inquiry history", err)
	}
	return nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
