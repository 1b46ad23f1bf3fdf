package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userService struct {
	repo   repositories.Repository
	db     *gorm.DB
	cache  cache.CacheService
	logger *ServiceLogger
}

func NewUserService(deps Dependencies) UserService {
	return &userService{
		repo:   deps.Repo,
		db:     deps.Repo.DB(),
		cache:  deps.Cache,
		logger: deps.serviceLogger("user"),
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create lets an admin create a user with any role
func (s *userService) Create(ctx context.Context, identity auth.Identity, req *CreateUserRequest) (user *models.User, err error) {
	op := s.logger.WithOperation(ctx, "user.create", identity.UserID)
	defer func() { op.LogResult(0, "user", err) }()

	if err = requireAdmin(identity, "user", "create", 0); err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	return s.create(ctx, req.Name, req.Email, req.Password, req.Phone, req.Role)
}

// Register creates a student account. The role is never taken from the request.
func (s *userService) Register(ctx context.Context, req *RegisterRequest) (user *models.User, err error) {
	op := s.logger.WithOperation(ctx, "user.register", 0)
	defer func() { op.LogResult(0, "user", err) }()

	return s.create(ctx, req.Name, req.Email, req.Password, req.Phone, models.RoleStudent)
}

func (s *userService) create(ctx context.Context, name, email, password string, phone *string, role models.UserRole) (*models.User, error) {
	email = normalizeEmail(email)

	taken, err := s.repo.User().ExistsByEmail(ctx, nil, email, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hash,
		Phone:    phone,
		Role:     role,
	}
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.User, error) {
	if err := requireSelfOrAdmin(identity, id, "user", "read"); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "get user")
	}
	return user, nil
}

// UpdateProfile changes name and phone. Email, password and role are not editable here.
func (s *userService) UpdateProfile(ctx context.Context, identity auth.Identity, id uint, req *UpdateProfileRequest) (user *models.User, err error) {
	op := s.logger.WithOperation(ctx, "user.update_profile", identity.UserID)
	defer func() { op.LogResult(id, "user", err) }()

	if err = requireSelfOrAdmin(identity, id, "user", "update"); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		s.logger.LogDebug(ctx, "Updating profile", "user_id", id, "updates", SanitizeForLogging(updates))
		if err = s.repo.User().Update(ctx, nil, id, updates); err != nil {
			return nil, notFoundAs(err, ErrUserNotFound, "update user")
		}
	}

	user, err = s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "get user")
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, identity auth.Identity, req *ChangePasswordRequest) (err error) {
	op := s.logger.WithOperation(ctx, "user.change_password", identity.UserID)
	defer func() { op.LogResult(identity.UserID, "user", err) }()

	user, err := s.repo.User().GetByID(ctx, nil, identity.UserID)
	if err != nil {
		return notFoundAs(err, ErrUserNotFound, "get user")
	}
	if !checkPassword(user.Password, req.CurrentPassword) {
		return ErrInvalidPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err = s.repo.User().Update(ctx, nil, user.ID, map[string]interface{}{"password": hash}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Delete removes the user together with their enrollments, progress and certificates
func (s *userService) Delete(ctx context.Context, identity auth.Identity, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "user.delete", identity.UserID)
	defer func() { op.LogResult(id, "user", err) }()

	if err = requireAdmin(identity, "user", "delete", id); err != nil {
		return err
	}
	if id == identity.UserID {
		return NewBusinessRuleError("USER-SELF-DELETE", "Admins cannot delete their own account", map[string]interface{}{"user_id": id})
	}

	// Enrollments go with the user, so the stats of their courses go stale
	var courseIDs []uint
	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		enrollments, err := s.repo.Enrollment().GetByStudent(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to get user enrollments: %w", err)
		}
		for _, enrollment := range enrollments {
			courseIDs = append(courseIDs, enrollment.CourseID)
		}

		if err := s.repo.User().Delete(ctx, tx, id); err != nil {
			return notFoundAs(err, ErrUserNotFound, "delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log := s.logger.Logger()
	for _, courseID := range courseIDs {
		invalidateCourseStats(ctx, s.cache, log, courseID)
	}
	return nil
}

func (s *userService) Search(ctx context.Context, identity auth.Identity, filters repositories.UserFilters) (*UserPage, error) {
	if err := requireAdmin(identity, "user", "search", 0); err != nil {
		return nil, err
	}
	if filters.Role != nil && !filters.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	users, total, err := s.repo.User().Search(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return repositories.NewPage(users, total, filters.Pagination), nil
}

func (s *userService) IsEmailAvailable(ctx context.Context, email string, excludeID *uint) (bool, error) {
	taken, err := s.repo.User().ExistsByEmail(ctx, nil, normalizeEmail(email), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return !taken, nil
}
