package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "learning-service"
	EventVersion = "1.0"
)

// EventType represents the kinds of learning events published after a commit
type EventType string

const (
	EventEnrollmentCreated   EventType = "enrollment.created"
	EventEnrollmentCancelled EventType = "enrollment.cancelled"
	EventLessonCompleted     EventType = "lesson.completed"
	EventCourseCompleted     EventType = "course.completed"
	EventCertificateIssued   EventType = "certificate.issued"
)

// LearningEvent is the envelope for every published event
type LearningEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func NewLearningEvent(eventType EventType, data interface{}) *LearningEvent {
	return &LearningEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

// Payloads

type EnrollmentEvent struct {
	EnrollmentID uint      `json:"enrollment_id"`
	StudentID    uint      `json:"student_id"`
	CourseID     uint      `json:"course_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type LessonCompletedEvent struct {
	EnrollmentID       uint    `json:"enrollment_id"`
	StudentID          uint    `json:"student_id"`
	CourseID           uint    `json:"course_id"`
	LessonID           uint    `json:"lesson_id"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

type CourseCompletedEvent struct {
	EnrollmentID uint      `json:"enrollment_id"`
	StudentID    uint      `json:"student_id"`
	CourseID     uint      `json:"course_id"`
	CompletedAt  time.Time `json:"completed_at"`
}

type CertificateIssuedEvent struct {
	CertificateID   uint   `json:"certificate_id"`
	CertificateCode string `json:"certificate_code"`
	StudentID       uint   `json:"student_id"`
	CourseID        uint   `json:"course_id"`
}
