package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dependencies groups the collaborators every service is built from
type Dependencies struct {
	Repo      repositories.Repository
	Validator *validator.Validator
	Publisher events.EventPublisher
	Cache     cache.CacheService
	Logger    *slog.Logger
	CacheTTL  time.Duration
}

func (d Dependencies) serviceLogger(service string) *ServiceLogger {
	return NewServiceLogger(d.Logger, LogConfig{Service: service, Component: "service"})
}

// withTx executes a function within a transaction
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// ===== IDENTITY CHECKS =====

func requireAdmin(identity auth.Identity, resource, action string, resourceID uint) error {
	if identity.IsAdmin() {
		return nil
	}
	return NewPermissionError(identity.UserID, resourceID, resource, action, "admin role required")
}

func requireSelfOrAdmin(identity auth.Identity, ownerID uint, resource, action string) error {
	if identity.IsAdmin() || identity.UserID == ownerID {
		return nil
	}
	return NewPermissionError(identity.UserID, ownerID, resource, action, "not the owner")
}

func ownsEnrollment(identity auth.Identity, enrollment *models.Enrollment) bool {
	return identity.IsAdmin() || enrollment.StudentID == identity.UserID
}

// ===== AUDIT =====

func recordAudit(ctx context.Context, tx *gorm.DB, audit repositories.AuditRepository, identity auth.Identity, eventType models.AuditEventType, targetType string, targetID uint, description string, changes map[string]interface{}) error {
	entry := &models.AuditLog{
		EventType:   eventType,
		ActorID:     identity.UserID,
		ActorRole:   identity.Role,
		TargetType:  targetType,
		TargetID:    &targetID,
		Description: description,
	}

	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			return fmt.Errorf("failed to encode audit changes: %w", err)
		}
		entry.Changes = datatypes.JSON(data)
	}

	if err := audit.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// ===== POST-COMMIT EFFECTS =====

// publish sends the event after the mutation committed. A failure is logged and never undoes the mutation.
func publish(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType events.EventType, data interface{}) {
	event := events.NewLearningEvent(eventType, data)
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "event_type", eventType, "event_id", event.ID, "error", err)
	}
}

func invalidateCourseStats(ctx context.Context, c cache.CacheService, logger *slog.Logger, courseID uint) {
	for _, key := range []string{cache.CourseStatsKey(courseID), cache.EnrollmentStatsKey} {
		if err := c.Delete(ctx, key); err != nil {
			logger.WarnContext(ctx, "Failed to invalidate cache", "key", key, "error", err)
		}
	}
}

// ===== SMALL HELPERS =====

// roundPercentage rounds to two decimals and clamps to [0, 100]. Only a
// finished course reports 100; anything short of it stays at 99.99 or below.
func roundPercentage(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	if courseFinished(completed, total) {
		return 100
	}
	pct := math.Round(float64(completed)/float64(total)*10000) / 100
	return math.Min(math.Max(pct, 0), 99.99)
}

func courseFinished(completed, total int64) bool {
	return total > 0 && completed >= total
}

// nullable turns a nil pointer into an untyped nil so gorm writes NULL
func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
