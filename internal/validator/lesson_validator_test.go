package validator

import (
	"testing"

	apperrors "github.com/SAP-F-2025/learning-service/internal/errors"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestLessonValidator_Normalize(t *testing.T) {
	v := NewLessonValidator()

	tests := []struct {
		name        string
		input       LessonContentInput
		wantErr     string
		wantURL     *string
		wantContent *string
	}{
		{
			name:    "video without url",
			input:   LessonContentInput{Type: models.LessonTypeVideo},
			wantErr: models.MsgVideoURLRequired,
		},
		{
			name:    "video with blank url",
			input:   LessonContentInput{Type: models.LessonTypeVideo, VideoURL: strPtr("  ")},
			wantErr: models.MsgVideoURLRequired,
		},
		{
			name:    "text without content",
			input:   LessonContentInput{Type: models.LessonTypeText, VideoURL: strPtr("http://x")},
			wantErr: models.MsgContentRequired,
		},
		{
			name:    "unknown type",
			input:   LessonContentInput{Type: "audio", Content: strPtr("body")},
			wantErr: models.MsgInvalidLessonType,
		},
		{
			name:    "video drops content",
			input:   LessonContentInput{Type: models.LessonTypeVideo, VideoURL: strPtr("http://v"), Content: strPtr("ignored")},
			wantURL: strPtr("http://v"),
		},
		{
			name:        "text drops video url",
			input:       LessonContentInput{Type: models.LessonTypeText, VideoURL: strPtr("http://v"), Content: strPtr("body")},
			wantContent: strPtr("body"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Normalize(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				var ve *apperrors.ValidationError
				assert.ErrorAs(t, err, &ve)
				if tt.input.Type.IsValid() {
					assert.NotErrorIs(t, err, models.ErrInvalidLessonType)
				} else {
					assert.ErrorIs(t, err, models.ErrInvalidLessonType)
					assert.Equal(t, "lesson_type", ve.Rule)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, got.VideoURL)
			assert.Equal(t, tt.wantContent, got.Content)
		})
	}
}

func TestLessonValidator_ValidatePartial(t *testing.T) {
	v := NewLessonValidator()

	t.Run("no type passes through", func(t *testing.T) {
		got, err := v.ValidatePartial(nil, nil, strPtr("anything"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("type present is validated", func(t *testing.T) {
		lessonType := models.LessonTypeVideo
		_, err := v.ValidatePartial(&lessonType, nil, strPtr("text"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), models.MsgVideoURLRequired)
	})
}

func TestValidator_CustomTags(t *testing.T) {
	type request struct {
		Type models.LessonType `json:"type" validate:"required,lesson_type"`
		Role models.UserRole   `json:"role" validate:"omitempty,user_role"`
	}

	v := New()

	assert.NoError(t, v.Validate(&request{Type: models.LessonTypeText, Role: models.RoleAdmin}))

	err := v.Validate(&request{Type: "audio", Role: "instructor"})
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, "type", errs[0].Field)
	assert.Equal(t, "lesson_type", errs[0].Rule)
	assert.Equal(t, "role", errs[1].Field)
}
