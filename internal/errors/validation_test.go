package errors

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("video_url", "Video URL is required for video lessons", nil)

	assert.Equal(t, "video_url", err.Field)
	assert.Equal(t, "validation error on field 'video_url': Video URL is required for video lessons", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("title", "is required", nil))
	assert.Equal(t, "validation failed: title is required", errs.Error())

	errs = append(errs, *NewValidationError("type", "is required", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("type", "Invalid lesson type", "lesson_type", "audio")

	assert.Equal(t, "lesson_type", err.Rule)
	assert.Equal(t, "audio", err.Value)
}

func TestToValidationErrors(t *testing.T) {
	t.Run("wraps a single wrapped validation error", func(t *testing.T) {
		wrapped := fmt.Errorf("create lesson: %w", NewValidationError("content", "Content is required for text lessons", nil))

		errs := ToValidationErrors(wrapped)
		require.Len(t, errs, 1)
		assert.Equal(t, "content", errs[0].Field)
	})

	t.Run("converts validator field errors using json names", func(t *testing.T) {
		type request struct {
			Title string `json:"title" validate:"required"`
			Email string `json:"email" validate:"required,email"`
		}

		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string { return fld.Tag.Get("json") })

		errs := ToValidationErrors(v.Struct(request{Email: "nope"}))
		require.Len(t, errs, 2)
		assert.Equal(t, "title", errs[0].Field)
		assert.Equal(t, "is required", errs[0].Message)
		assert.Equal(t, "email", errs[1].Field)
		assert.Equal(t, "must be a valid email address", errs[1].Message)
	})
}
