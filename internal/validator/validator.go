package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct tags and lesson content rules
type Validator struct {
	structValidator *validator.Validate
	lessonValidator *LessonValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		lessonValidator: NewLessonValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Lesson returns the lesson content validator
func (v *Validator) Lesson() *LessonValidator {
	return v.lessonValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("lesson_type", validateLessonType)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("enrollment_status", validateEnrollmentStatus)

	// Report json field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateLessonType(fl validator.FieldLevel) bool {
	return models.LessonType(fl.Field().String()).IsValid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).IsValid()
}

func validateEnrollmentStatus(fl validator.FieldLevel) bool {
	return models.EnrollmentStatus(fl.Field().String()).IsValid()
}
