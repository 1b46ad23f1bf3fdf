package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiTest struct {
	t          *testing.T
	router     *gin.Engine
	tokens     *auth.JWTService
	fx         *testutil.Fixtures
	adminToken string
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogger)
	v := validator.New()

	tokens := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenTTL: time.Hour}).
		WithDenylist(auth.NewTokenDenylist(testutil.NewMemoryCache()))
	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      postgres.NewRepository(db),
		Validator: v,
		Publisher: events.NewMockEventPublisher(slogger),
		Cache:     cache.NewNoopCache(),
		Logger:    slogger,
		CacheTTL:  time.Minute,
	}, tokens)

	router := gin.New()
	router.Use(utils.RequestID(), utils.ContextLogger(logger))
	NewHandlerManager(serviceManager, v, tokens, logger).SetupRoutes(router)

	api := &apiTest{t: t, router: router, tokens: tokens, fx: fx}
	api.adminToken = api.tokenFor(fx.Admin("admin@example.com"))
	return api
}

func (a *apiTest) tokenFor(user *models.User) string {
	a.t.Helper()
	token, _, err := a.tokens.GenerateToken(user)
	require.NoError(a.t, err)
	return token
}

func (a *apiTest) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	api := newAPITest(t)

	w := api.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "learning-service")
}

func TestAPI_StudentJourney(t *testing.T) {
	api := newAPITest(t)

	// Register and log in as a student
	w := api.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Ana", "email": "Ana@Example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[models.User](t, w)
	assert.Equal(t, "ana@example.com", registered.Email)
	assert.Equal(t, models.RoleStudent, registered.Role)
	assert.NotContains(t, w.Body.String(), "secret123")

	w = api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	studentToken := decode[services.LoginResponse](t, w).Token
	require.NotEmpty(t, studentToken)

	w = api.do(http.MethodGet, "/api/v1/auth/me", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, registered.ID, decode[models.User](t, w).ID)

	// Admin builds a course with two text lessons
	w = api.do(http.MethodPost, "/api/v1/admin/courses", api.adminToken, gin.H{
		"title": "Go", "description": "Learn Go", "duration_hours": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	course := decode[models.Course](t, w)
	assert.True(t, course.Active)

	w = api.do(http.MethodPost, "/api/v1/admin/modules", api.adminToken, gin.H{"course_id": course.ID, "title": "Basics"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	module := decode[models.Module](t, w)
	assert.Equal(t, 1, module.Order)

	var lessonIDs []uint
	for i := 1; i <= 2; i++ {
		w = api.do(http.MethodPost, "/api/v1/admin/lessons", api.adminToken, gin.H{
			"module_id": module.ID, "title": fmt.Sprintf("Lesson %d", i), "type": "text",
			"content": "body", "duration_minutes": 5,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		lessonIDs = append(lessonIDs, decode[models.Lesson](t, w).ID)
	}

	// Student enrolls and completes one lesson
	coursePath := fmt.Sprintf("/api/v1/student/courses/%d", course.ID)

	w = api.do(http.MethodGet, coursePath+"/can-enroll", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[services.EligibilityResponse](t, w).CanEnroll)

	w = api.do(http.MethodPost, coursePath+"/enroll", studentToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	enrollment := decode[models.Enrollment](t, w)
	assert.Equal(t, registered.ID, enrollment.StudentID)

	w = api.do(http.MethodPost, fmt.Sprintf("/api/v1/student/enrollments/%d/lessons/%d/complete", enrollment.ID, lessonIDs[0]), studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 50.0, decode[models.Enrollment](t, w).ProgressPercentage)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/v1/student/lessons/%d", lessonIDs[0]), studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[services.LessonWithProgress](t, w).Completed)

	w = api.do(http.MethodGet, "/api/v1/student/enrollments", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Enrollment](t, w), 1)

	// Admin sees it in the export
	w = api.do(http.MethodGet, "/api/v1/admin/enrollments/export", api.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}

func TestAPI_AuthenticationAndRoles(t *testing.T) {
	api := newAPITest(t)
	studentToken := api.tokenFor(api.fx.Student("ana@example.com"))

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		code   string
	}{
		{"missing token", http.MethodGet, "/api/v1/admin/courses", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", http.MethodGet, "/api/v1/admin/courses", "not-a-jwt", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"student on admin route", http.MethodGet, "/api/v1/admin/courses", studentToken, http.StatusForbidden, "FORBIDDEN"},
		{"admin on student route", http.MethodGet, "/api/v1/student/courses", api.adminToken, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestAPI_ErrorMapping(t *testing.T) {
	api := newAPITest(t)
	course := api.fx.Course("Go", true)
	module := api.fx.Module(course.ID, 1)

	t.Run("invalid id", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/admin/courses/abc", api.adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown course", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/admin/courses/9999", api.adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("video lesson without url", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/admin/lessons", api.adminToken, gin.H{
			"module_id": module.ID, "title": "Intro", "type": "video", "duration_minutes": 5,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", decode[ErrorResponse](t, w).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/courses", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+api.adminToken)
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := gin.H{"name": "Ana", "email": "ana@example.com", "password": "secret123"}
		require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/auth/register", "", body).Code)
		assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/v1/auth/register", "", body).Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("delete returns no content", func(t *testing.T) {
		w := api.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/modules/%d", module.ID), api.adminToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestAPI_LogoutRevokesToken(t *testing.T) {
	api := newAPITest(t)
	student := api.fx.Student("ana@example.com")
	token := api.tokenFor(student)
	otherSession := api.tokenFor(student)

	w := api.do(http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "REVOKED_TOKEN", decode[ErrorResponse](t, w).Code)

	w = api.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/v1/auth/me", otherSession, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
