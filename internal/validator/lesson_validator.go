package validator

import (
	"github.com/SAP-F-2025/learning-service/internal/models"
)

// LessonValidator checks that lesson content matches the lesson type
type LessonValidator struct{}

func NewLessonValidator() *LessonValidator {
	return &LessonValidator{}
}

// LessonContentInput is the loosely typed shape lesson content arrives in.
type LessonContentInput struct {
	Type     models.LessonType
	VideoURL *string
	Content  *string
}

// ValidateContent returns the typed content variant, or a validation error whose
// message names the missing field.
func (v *LessonValidator) ValidateContent(input LessonContentInput) (models.LessonContent, error) {
	return models.NewLessonContent(input.Type, input.VideoURL, input.Content)
}

// Normalize validates the input and returns it with the unused field cleared.
func (v *LessonValidator) Normalize(input LessonContentInput) (LessonContentInput, error) {
	content, err := v.ValidateContent(input)
	if err != nil {
		return input, err
	}

	var lesson models.Lesson
	lesson.ApplyContent(content)

	return LessonContentInput{
		Type:     lesson.Type,
		VideoURL: lesson.VideoURL,
		Content:  lesson.Content,
	}, nil
}

// ValidatePartial applies only when a type is present. Without a type the
// content fields pass through untouched.
func (v *LessonValidator) ValidatePartial(lessonType *models.LessonType, videoURL, content *string) (*LessonContentInput, error) {
	if lessonType == nil {
		return nil, nil
	}
	normalized, err := v.Normalize(LessonContentInput{Type: *lessonType, VideoURL: videoURL, Content: content})
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}
