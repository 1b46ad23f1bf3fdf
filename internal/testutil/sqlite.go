// Package testutil opens throwaway databases for repository and service tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewDB returns a migrated in-memory SQLite database private to the test.
// Foreign keys are enforced so cascades behave as they do on Postgres.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and serialises writers.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// Fixtures creates rows with sensible defaults for tests.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) create(value interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(value).Error)
}

func (f *Fixtures) User(role models.UserRole, email string) *models.User {
	user := &models.User{
		Name:     strings.Split(email, "@")[0],
		Email:    email,
		Password: "$2a$10$placeholderplaceholderplaceholderplaceholderplaceho",
		Role:     role,
	}
	f.create(user)
	return user
}

func (f *Fixtures) Student(email string) *models.User {
	return f.User(models.RoleStudent, email)
}

func (f *Fixtures) Admin(email string) *models.User {
	return f.User(models.RoleAdmin, email)
}

func (f *Fixtures) Course(title string, active bool) *models.Course {
	course := &models.Course{Title: title, Description: title + " description", DurationHours: 10, Active: active}
	f.create(course)
	return course
}

func (f *Fixtures) Module(courseID uint, order int) *models.Module {
	module := &models.Module{CourseID: courseID, Title: fmt.Sprintf("Module %d", order), Order: order}
	f.create(module)
	return module
}

func (f *Fixtures) TextLesson(moduleID uint, order int) *models.Lesson {
	body := "body"
	lesson := &models.Lesson{
		ModuleID: moduleID,
		Title:    fmt.Sprintf("Lesson %d", order),
		Type:     models.LessonTypeText,
		Content:  &body,
		Order:    order,
	}
	f.create(lesson)
	return lesson
}
