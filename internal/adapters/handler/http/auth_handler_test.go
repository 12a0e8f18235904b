package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vitanav/wellness-engine/internal/core/domain"
	"github.com/vitanav/wellness-engine/internal/core/services"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func setupAuthHandler() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo)
	tokenService := services.NewTokenService("test-secret", "wellness-test", time.Hour, mockRepo)
	authHandler := NewAuthHandler(authService, tokenService)

	router := gin.New()
	authHandler.RegisterRoutes(router.Group(""))

	return router, mockRepo
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success: Should return 201 with user and token (No Password)", func(t *testing.T) {
		router, mockRepo := setupAuthHandler()

		payload := map[string]string{
			"email":    "api_test@vitanav.app",
			"name":     "Api Tester",
			"password": "SuperSecretPassword1!",
		}
		body, _ := json.Marshal(payload)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response authResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, payload["email"], response.User.Email)
		assert.Equal(t, payload["name"], response.User.Name)
		assert.NotEmpty(t, response.User.ID)
		assert.NotEmpty(t, response.Token)

		assert.NotContains(t, w.Body.String(), "password")

		mockRepo.AssertExpectations(t)
	})

	t.Run("Fail: Should return 400 for invalid email", func(t *testing.T) {
		router, mockRepo := setupAuthHandler()

		payload := map[string]string{
			"email":    "not-an-email",
			"name":     "Api Tester",
			"password": "Password123!",
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return 400 for short password", func(t *testing.T) {
		router, mockRepo := setupAuthHandler()

		payload := map[string]string{
			"email":    "valid@email.com",
			"name":     "Api Tester",
			"password": "short",
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return 409 Conflict if email exists", func(t *testing.T) {
		router, mockRepo := setupAuthHandler()

		payload := map[string]string{
			"email":    "duplicate@vitanav.app",
			"name":     "Api Tester",
			"password": "ValidPassword123!",
		}
		body, _ := json.Marshal(payload)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailAlreadyExists)

		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email already exists")
	})

	t.Run("Fail: Should return 500 Internal Server Error on DB failure", func(t *testing.T) {
		router, mockRepo := setupAuthHandler()

		payload := map[string]string{
			"email":    "crash@vitanav.app",
			"name":     "Api Tester",
			"password": "ValidPassword123!",
		}
		body, _ := json.Marshal(payload)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db connection lost"))

		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	makeStoredUser := func(email, password string) *domain.User {
		user, _ := domain.NewUser("user-1", email, "Api Tester")
		_ = user.SetPassword(password)
		return user
	}

	t.Run("Success: Should return 200 with token", func(t *testing.T) {
		router, mockRepo := setupAuthHandler()

		stored := makeStoredUser("login@vitanav.app", "ValidPassword123!")
		mockRepo.On("GetByEmail", mock.Anything, "login@vitanav.app").Return(stored, nil)

		payload := map[string]string{
			"email":    "login@vitanav.app",
			"password": "ValidPassword123!",
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response authResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, stored.ID, response.User.ID)
		assert.NotEmpty(t, response.Token)
	})

	t.Run("Fail: Should return 401 for wrong password", func(t *testing.T) {
		router, mockRepo := setupAuthHandler()

		stored := makeStoredUser("login@vitanav.app", "ValidPassword123!")
		mockRepo.On("GetByEmail", mock.Anything, "login@vitanav.app").Return(stored, nil)

		payload := map[string]string{
			"email":    "login@vitanav.app",
			"password": "wrong-password",
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("Fail: Should return 401 for unknown email", func(t *testing.T) {
		router, mockRepo := setupAuthHandler()

		mockRepo.On("GetByEmail", mock.Anything, "ghost@vitanav.app").Return(nil, domain.ErrUserNotFound)

		payload := map[string]string{
			"email":    "ghost@vitanav.app",
			"password": "whatever-password",
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
