package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vitanav/wellness-engine/internal/adapters/repository"
	"github.com/vitanav/wellness-engine/internal/core/services"
)

func setupPatternHandler() *gin.Engine {
	gin.SetMode(gin.TestMode)

	tasks := repository.NewInMemoryTaskRepository()
	summaries := repository.NewInMemorySummaryRepository()
	service := services.NewPatternService(summaries, tasks, nil)
	handler := NewPatternHandler(service)

	router := gin.New()
	router.Use(testAuth())
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestPatternHandler_Patterns(t *testing.T) {
	t.Run("Success: 200 with neutral pattern for a fresh user", func(t *testing.T) {
		router := setupPatternHandler()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/patterns", nil)
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"time_preference"`)
		assert.Contains(t, w.Body.String(), `"activity_patterns"`)
	})

	t.Run("Fail: 401 without user", func(t *testing.T) {
		router := setupPatternHandler()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/patterns", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
