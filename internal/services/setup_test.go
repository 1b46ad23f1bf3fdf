package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	fx        *testutil.Fixtures
	deps      Dependencies
	publisher *events.MockEventPublisher
	admin     auth.Identity
	ctx       context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)

	admin := fx.Admin("admin@example.com")

	return &testEnv{
		db:        db,
		fx:        fx,
		publisher: publisher,
		admin:     identityOf(admin),
		ctx:       context.Background(),
		deps: Dependencies{
			Repo:      postgres.NewRepository(db),
			Validator: validator.New(),
			Publisher: publisher,
			Cache:     cache.NewNoopCache(),
			Logger:    logger,
			CacheTTL:  time.Minute,
		},
	}
}

func identityOf(user *models.User) auth.Identity {
	return auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func (e *testEnv) student(email string) (*models.User, auth.Identity) {
	user := e.fx.Student(email)
	return user, identityOf(user)
}

// courseWithLessons creates an active course with the given number of text lessons per module
func (e *testEnv) courseWithLessons(lessonsPerModule ...int) (*models.Course, []*models.Lesson) {
	course := e.fx.Course("Go", true)
	var lessons []*models.Lesson
	for i, count := range lessonsPerModule {
		module := e.fx.Module(course.ID, i+1)
		for j := 0; j < count; j++ {
			lessons = append(lessons, e.fx.TextLesson(module.ID, j+1))
		}
	}
	return course, lessons
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// MockCache is a testify mock of cache.CacheService
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
