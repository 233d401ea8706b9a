package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"gorm.io/gorm"

	"talentdesk/internal/domain"
	"talentdesk/internal/metrics"
	"talentdesk/internal/paging"
	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

// LookupService manages the reference-data catalogs (skill groups,
// locations, job roles, ...). Lists are fetched whole per kind, cached, and
// filtered and paged in memory.
type LookupService struct {
	db    *gorm.DB
	lists *ttlcache.Cache[domain.LookupKind, []domain.LookupItem]
}

// NewLookupService creates a lookup service; a zero ttl disables the cache
func NewLookupService(db *gorm.DB, ttl time.Duration) *LookupService {
	s := &LookupService{db: db}
	if ttl > 0 {
		s.lists = ttlcache.New(ttlcache.WithTTL[domain.LookupKind, []domain.LookupItem](ttl))
		go s.lists.Start()
	}
	return s
}

// Close stops the cache janitor
func (s *LookupService) Close() {
	if s.lists != nil {
		s.lists.Stop()
	}
}

// List returns one page of kind's entries whose name or description
// contains search, in name order
func (s *LookupService) List(ctx context.Context, kind domain.LookupKind, search string, params paging.Params, actor domain.Actor) (paging.Page[domain.LookupItem], error) {
	if err := requireStaff(actor); err != nil {
		return paging.Page[domain.LookupItem]{}, err
	}
	items, err := s.all(ctx, kind)
	if err != nil {
		return paging.Page[domain.LookupItem]{}, err
	}
	return paging.Apply(items, search, domain.LookupItem.SearchFields, params), nil
}

func (s *LookupService) all(ctx context.Context, kind domain.LookupKind) ([]domain.LookupItem, error) {
	if s.lists != nil {
		if item := s.lists.Get(kind); item != nil {
			return item.Value(), nil
		}
	}

	var items []domain.LookupItem
	start := time.Now()
	err := s.db.WithContext(ctx).Where("kind = ?", kind).Order("name ASC, id ASC").Find(&items).Error
	metrics.RecordDBQuery("lookup_list", time.Since(start), err)
	if err != nil {
		return nil, internal("LOOKUP", "failed to list "+string(kind), err)
	}
	if s.lists != nil {
		s.lists.Set(kind, items, ttlcache.DefaultTTL)
	}
	return items, nil
}

func (s *LookupService) invalidate(kind domain.LookupKind) {
	if s.lists != nil {
		s.lists.Delete(kind)
	}
}

// Get loads one entry of kind
func (s *LookupService) Get(ctx context.Context, kind domain.LookupKind, id uint, actor domain.Actor) (*domain.LookupItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	var item domain.LookupItem
	if err := s.db.WithContext(ctx).Where("kind = ?", kind).First(&item, id).Error; err != nil {
		return nil, lookupErr("LOOKUP", strings.TrimSuffix(string(kind), "s"), id, err)
	}
	return &item, nil
}

// Create adds an entry to kind (admin only)
func (s *LookupService) Create(ctx context.Context, kind domain.LookupKind, p *api.LookupRequest, actor domain.Actor) (*domain.LookupItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := api.Validate(p); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, kind, p.Name, 0); err != nil {
		return nil, err
	}

	item := &domain.LookupItem{
		Kind:        kind,
		Name:        p.Name,
		Description: trimmedPtr(p.Description),
		IsActive:    p.IsActive == nil || *p.IsActive,
	}
	if err := s.db.WithContext(ctx).Select("*").Omit("id").Create(item).Error; err != nil {
		return nil, internal("LOOKUP", "failed to create "+string(kind), err)
	}
	s.invalidate(kind)
	metrics.RecordLookupWrite(string(kind), "create")
	log.Printf("[LOOKUP] Create successful: kind=%s, id=%d, name=%s", kind, item.ID, item.Name)
	return item, nil
}

// Update replaces an entry's fields (admin only)
func (s *LookupService) Update(ctx context.Context, kind domain.LookupKind, id uint, p *api.LookupRequest, actor domain.Actor) (*domain.LookupItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := api.Validate(p); err != nil {
		return nil, err
	}
	item, err := s.Get(ctx, kind, id, actor)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, kind, p.Name, id); err != nil {
		return nil, err
	}

	item.Name = p.Name
	item.Description = trimmedPtr(p.Description)
	if p.IsActive != nil {
		item.IsActive = *p.IsActive
	}
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, internal("LOOKUP", "failed to update "+string(kind), err)
	}
	s.invalidate(kind)
	metrics.RecordLookupWrite(string(kind), "update")
	log.Printf("[LOOKUP] Update successful: kind=%s, id=%d", kind, id)
	return item, nil
}

// Delete removes an entry (admin only)
func (s *LookupService) Delete(ctx context.Context, kind domain.LookupKind, id uint, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("kind = ?", kind).Delete(&domain.LookupItem{}, id)
	if res.Error != nil {
		return internal("LOOKUP", "failed to delete "+string(kind), res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(strings.TrimSuffix(string(kind), "s"), id)
	}
	s.invalidate(kind)
	metrics.RecordLookupWrite(string(kind), "delete")
	log.Printf("[LOOKUP] Delete successful: kind=%s, id=%d", kind, id)
	return nil
}

func (s *LookupService) ensureUniqueName(ctx context.Context, kind domain.LookupKind, name string, exceptID uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.LookupItem{}).Where("kind = ? AND LOWER(name) = ?", kind, strings.ToLower(name))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return internal("LOOKUP", "failed to check name", err)
	}
	if count > 0 {
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeConflict,
			Message: "name already exists",
			Field:   "name",
		}
	}
	return nil
}
