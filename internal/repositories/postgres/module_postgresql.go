package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type ModulePostgreSQL struct {
	*Store[models.Module]
	orderedScope[models.Module]
}

func NewModulePostgreSQL(db *gorm.DB) repositories.ModuleRepository {
	store := NewStore[models.Module](db)
	return &ModulePostgreSQL{
		Store:        store,
		orderedScope: newOrderedScope(store, "course_id"),
	}
}

func (m *ModulePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Module, error) {
	return m.FindByID(ctx, tx, id)
}

// GetByIDWithLessons loads the module with its lessons in order
func (m *ModulePostgreSQL) GetByIDWithLessons(ctx context.Context, tx *gorm.DB, id uint) (*models.Module, error) {
	return m.FindByID(ctx, tx, id, preloadOrderedLessons)
}

func (m *ModulePostgreSQL) GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Module, error) {
	return m.FindBy(ctx, tx, m.inScope(courseID), orderedBy(orderAsc))
}

func (m *ModulePostgreSQL) GetByCourseWithLessonCounts(ctx context.Context, tx *gorm.DB, courseID uint) ([]repositories.ModuleWithLessonCount, error) {
	modules, err := m.FindBy(ctx, tx, m.inScope(courseID), orderedBy(orderAsc), preloadOrderedLessons)
	if err != nil {
		return nil, fmt.Errorf("failed to get modules: %w", err)
	}

	result := make([]repositories.ModuleWithLessonCount, len(modules))
	for i, module := range modules {
		result[i] = repositories.ModuleWithLessonCount{
			Module:       *module,
			LessonsCount: int64(len(module.Lessons)),
		}
	}
	return result, nil
}

func (m *ModulePostgreSQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return m.UpdateByID(ctx, tx, id, updates)
}

func (m *ModulePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return m.DeleteByID(ctx, tx, id)
}

func (m *ModulePostgreSQL) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	return m.Count(ctx, tx, m.inScope(courseID))
}

func preloadOrderedLessons(db *gorm.DB) *gorm.DB {
	return db.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order(orderAsc)
	})
}
