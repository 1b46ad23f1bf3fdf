package postgres

import (
	"context"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	*Store[models.User]
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{Store: NewStore[models.User](db)}
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	return u.FindByID(ctx, tx, id)
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	return u.FindOneBy(ctx, tx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return u.UpdateByID(ctx, tx, id, updates)
}

func (u *UserPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return u.DeleteByID(ctx, tx, id)
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID *uint) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if excludeID != nil {
		return u.Exists(ctx, tx, "email = ? AND id <> ?", email, *excludeID)
	}
	return u.Exists(ctx, tx, "email = ?", email)
}

func (u *UserPostgreSQL) HasRole(ctx context.Context, tx *gorm.DB, id uint, role models.UserRole) (bool, error) {
	return u.Exists(ctx, tx, "id = ? AND role = ?", id, role)
}

func (u *UserPostgreSQL) Search(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var scopes []Scope
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(likeAny("name", "email"), pattern, pattern)
		})
	}
	if filters.Role != nil {
		scopes = append(scopes, whereEq("role", *filters.Role))
	}

	return u.Paginate(ctx, tx, filters.Pagination, "created_at DESC, id DESC", scopes...)
}
