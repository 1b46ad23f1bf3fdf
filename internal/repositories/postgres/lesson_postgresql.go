package postgres

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type LessonPostgreSQL struct {
	*Store[models.Lesson]
	orderedScope[models.Lesson]
}

func NewLessonPostgreSQL(db *gorm.DB) repositories.LessonRepository {
	store := NewStore[models.Lesson](db)
	return &LessonPostgreSQL{
		Store:        store,
		orderedScope: newOrderedScope(store, "module_id"),
	}
}

func (l *LessonPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error) {
	return l.FindByID(ctx, tx, id)
}

func (l *LessonPostgreSQL) GetByModule(ctx context.Context, tx *gorm.DB, moduleID uint) ([]*models.Lesson, error) {
	return l.FindBy(ctx, tx, l.inScope(moduleID), orderedBy(orderAsc))
}

func (l *LessonPostgreSQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return l.UpdateByID(ctx, tx, id, updates)
}

func (l *LessonPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return l.DeleteByID(ctx, tx, id)
}

func (l *LessonPostgreSQL) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	return l.Count(ctx, tx, inCourse(courseID))
}

func (l *LessonPostgreSQL) BelongsToCourse(ctx context.Context, tx *gorm.DB, lessonID, courseID uint) (bool, error) {
	count, err := l.Count(ctx, tx, inCourse(courseID), whereEq("lessons.id", lessonID))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func inCourse(courseID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN modules ON modules.id = lessons.module_id").
			Where("modules.course_id = ?", courseID)
	}
}
