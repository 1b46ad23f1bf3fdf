package models

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/learning-service/internal/errors"
)

type LessonType string

const (
	LessonTypeVideo LessonType = "video"
	LessonTypeText  LessonType = "text"
)

func (t LessonType) IsValid() bool {
	return t == LessonTypeVideo || t == LessonTypeText
}

// LessonContent is either VideoContent or TextContent. A lesson never carries both.
type LessonContent interface {
	Type() LessonType
	isLessonContent()
}

type VideoContent struct {
	URL string
}

func (VideoContent) Type() LessonType { return LessonTypeVideo }
func (VideoContent) isLessonContent() {}

type TextContent struct {
	Body string
}

func (TextContent) Type() LessonType { return LessonTypeText }
func (TextContent) isLessonContent() {}

// ErrInvalidLessonType is wrapped together with the field-level validation error
var ErrInvalidLessonType = errors.New("invalid lesson type")

// Messages surfaced to clients when lesson content does not match its type.
const (
	MsgVideoURLRequired  = "Video URL is required for video lessons"
	MsgContentRequired   = "Content is required for text lessons"
	MsgInvalidLessonType = "Invalid lesson type"
)

// NewLessonContent builds the content variant for the given type. The field that
// does not belong to the type is ignored.
func NewLessonContent(lessonType LessonType, videoURL, content *string) (LessonContent, error) {
	switch lessonType {
	case LessonTypeVideo:
		if isBlank(videoURL) {
			return nil, apperrors.NewValidationErrorWithRule("video_url", MsgVideoURLRequired, "required_for_video", nil)
		}
		return VideoContent{URL: *videoURL}, nil
	case LessonTypeText:
		if isBlank(content) {
			return nil, apperrors.NewValidationErrorWithRule("content", MsgContentRequired, "required_for_text", nil)
		}
		return TextContent{Body: *content}, nil
	default:
		fieldErr := apperrors.NewValidationErrorWithRule("type", MsgInvalidLessonType, "lesson_type", string(lessonType))
		return nil, fmt.Errorf("%w: %w", ErrInvalidLessonType, fieldErr)
	}
}

// ApplyContent stores the variant on the lesson row and clears the other column.
func (l *Lesson) ApplyContent(c LessonContent) {
	switch v := c.(type) {
	case VideoContent:
		url := v.URL
		l.Type = LessonTypeVideo
		l.VideoURL = &url
		l.Content = nil
	case TextContent:
		body := v.Body
		l.Type = LessonTypeText
		l.Content = &body
		l.VideoURL = nil
	}
}

// LessonContent reads the stored columns back as a variant.
func (l *Lesson) LessonContent() (LessonContent, error) {
	return NewLessonContent(l.Type, l.VideoURL, l.Content)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
