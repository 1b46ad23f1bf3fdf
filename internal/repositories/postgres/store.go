package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

// Scope narrows a query. Repositories pass scopes to the generic Store helpers.
type Scope = func(*gorm.DB) *gorm.DB

// Store holds the CRUD plumbing shared by every entity repository.
// Repositories embed a Store for their model instead of re-implementing it.
type Store[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

func (s *Store[T]) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *Store[T]) Create(ctx context.Context, tx *gorm.DB, entity *T) error {
	return s.getDB(tx).WithContext(ctx).Create(entity).Error
}

// FindByID returns gorm.ErrRecordNotFound when the id does not exist.
func (s *Store[T]) FindByID(ctx context.Context, tx *gorm.DB, id uint, scopes ...Scope) (*T, error) {
	var entity T
	if err := s.getDB(tx).WithContext(ctx).Scopes(scopes...).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *Store[T]) FindOneBy(ctx context.Context, tx *gorm.DB, query string, args ...interface{}) (*T, error) {
	var entity T
	if err := s.getDB(tx).WithContext(ctx).Where(query, args...).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *Store[T]) FindBy(ctx context.Context, tx *gorm.DB, scopes ...Scope) ([]*T, error) {
	var entities []*T
	if err := s.getDB(tx).WithContext(ctx).Scopes(scopes...).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// UpdateByID applies a column map. Missing ids yield gorm.ErrRecordNotFound.
func (s *Store[T]) UpdateByID(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		_, err := s.FindByID(ctx, tx, id)
		return err
	}

	result := s.getDB(tx).WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByID removes one row. Missing ids yield gorm.ErrRecordNotFound.
func (s *Store[T]) DeleteByID(ctx context.Context, tx *gorm.DB, id uint) error {
	result := s.getDB(tx).WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store[T]) Count(ctx context.Context, tx *gorm.DB, scopes ...Scope) (int64, error) {
	var count int64
	if err := s.getDB(tx).WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store[T]) Exists(ctx context.Context, tx *gorm.DB, query string, args ...interface{}) (bool, error) {
	var count int64
	err := s.getDB(tx).WithContext(ctx).Model(new(T)).Where(query, args...).Limit(1).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Paginate counts the filtered set, then loads one page of it. The order scope
// is applied to the page query only.
func (s *Store[T]) Paginate(ctx context.Context, tx *gorm.DB, p repositories.Pagination, order string, scopes ...Scope) ([]*T, int64, error) {
	total, err := s.Count(ctx, tx, scopes...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count: %w", err)
	}

	limit, offset := p.LimitOffset()
	var entities []*T
	query := s.getDB(tx).WithContext(ctx).Model(new(T)).Scopes(scopes...)
	if order != "" {
		query = query.Order(order)
	}
	if err := query.Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

// ===== COMMON SCOPES =====

func whereEq(column string, value interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

func orderedBy(order string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

func preload(relations ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		for _, r := range relations {
			db = db.Preload(r)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps a search term for a case-insensitive LIKE match. Wildcards
// typed by the user match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// likeAny matches one pattern against any of the columns, case-insensitively.
// Every column consumes one pattern argument.
func likeAny(columns ...string) string {
	clauses := make([]string, len(columns))
	for i, column := range columns {
		clauses[i] = fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, column)
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}
