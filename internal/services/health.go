package services

import (
	"context"
	"log"

	"gorm.io/gorm"

	"talentdesk/internal/database"
	"talentdesk/pkg/api"
)

// HealthService implements the health service
type HealthService struct {
	db      *gorm.DB
	name    string
	version string
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, name, version string) *HealthService {
	return &HealthService{db: db, name: name, version: version}
}

// Check reports "healthy" when the database answers a ping, "degraded" otherwise
func (s *HealthService) Check(ctx context.Context) *api.Health {
	result := &api.Health{
		Status:   "healthy",
		Service:  s.name,
		Version:  s.version,
		Database: "ok",
	}
	if err := database.Ping(ctx, s.db); err != nil {
		log.Printf("[HEALTH] Database ping failed: %v", err)
		result.Status = "degraded"
		result.Database = "unreachable"
	}
	if err := database.ReportStats(s.db); err != nil {
		log.Printf("[HEALTH] Failed to read pool stats: %v", err)
	}
	return result
}
