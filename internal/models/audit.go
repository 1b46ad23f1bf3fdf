package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditEventType string

const (
	AuditEnrollmentCreated   AuditEventType = "enrollment_created"
	AuditEnrollmentCancelled AuditEventType = "enrollment_cancelled"
	AuditLessonCompleted     AuditEventType = "lesson_completed"
	AuditProgressRecomputed  AuditEventType = "progress_recomputed"
	AuditModuleDeleted       AuditEventType = "module_deleted"
	AuditLessonDeleted       AuditEventType = "lesson_deleted"
	AuditOrderChanged        AuditEventType = "order_changed"
	AuditScopeResequenced    AuditEventType = "scope_resequenced"
	AuditCertificateIssued   AuditEventType = "certificate_issued"
	AuditCertificateRevoked  AuditEventType = "certificate_revoked"
)

type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventType AuditEventType `json:"event_type" gorm:"not null;size:50;index"`

	// Actor information. ActorID is zero for system-initiated changes.
	ActorID   uint     `json:"actor_id" gorm:"not null;index"`
	ActorRole UserRole `json:"actor_role" gorm:"size:20"`

	// Target information
	TargetType string `json:"target_type" gorm:"size:50;index"` // enrollment, module, lesson, certificate
	TargetID   *uint  `json:"target_id" gorm:"index"`

	Description string         `json:"description" gorm:"not null;type:text"`
	Changes     datatypes.JSON `json:"changes"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
