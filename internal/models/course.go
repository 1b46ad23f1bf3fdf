package models

import (
	"time"
)

type Course struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Title         string  `json:"title" gorm:"not null;size:255"`
	Description   string  `json:"description" gorm:"type:text"`
	Image         *string `json:"image" gorm:"size:500"`
	DurationHours int     `json:"duration_hours" gorm:"not null"`
	Active        bool    `json:"active" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}

// Module is a course section. Order is dense (1..N) within its course.
type Module struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CourseID    uint   `json:"course_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null;size:255"`
	Description string `json:"description" gorm:"type:text"`
	Order       int    `json:"order" gorm:"column:order;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (Module) TableName() string {
	return "modules"
}

// Lesson is a unit of content inside a module. Order is dense (1..N) within its module.
type Lesson struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	ModuleID        uint       `json:"module_id" gorm:"not null;index"`
	Title           string     `json:"title" gorm:"not null;size:255"`
	Description     string     `json:"description" gorm:"type:text"`
	Type            LessonType `json:"type" gorm:"not null;size:20"`
	Content         *string    `json:"content" gorm:"type:text"`
	VideoURL        *string    `json:"video_url" gorm:"size:500"`
	DurationMinutes int        `json:"duration_minutes" gorm:"not null"`
	Order           int        `json:"order" gorm:"column:order;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
