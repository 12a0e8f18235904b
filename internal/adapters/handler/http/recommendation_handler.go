package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitanav/wellness-engine/internal/adapters/handler/http/middleware"
	"github.com/vitanav/wellness-engine/internal/core/domain"
	"github.com/vitanav/wellness-engine/internal/core/services"
)

type RecommendationHandler struct {
	service  *services.RecommendationService
	profiles domain.ProfileRepository
}

func NewRecommendationHandler(service *services.RecommendationService, profiles domain.ProfileRepository) *RecommendationHandler {
	return &RecommendationHandler{
		service:  service,
		profiles: profiles,
	}
}

func (h *RecommendationHandler) Recommendations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	count := 5
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 20"})
			return
		}
		count = parsed
	}

	now := time.Now().UTC()
	rctx := domain.RecommendationContext{
		TimeOfDay: now.Hour(),
		DayOfWeek: int(now.Weekday()),
	}
	if raw := c.Query("hour"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 23 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hour must be between 0 and 23"})
			return
		}
		rctx.TimeOfDay = parsed
	}

	recommendations, err := h.service.Recommend(c.Request.Context(), userID, rctx, count)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

func (h *RecommendationHandler) ToggleCompletion(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	task, err := h.service.ToggleCompletion(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, task)
}

type profileRequest struct {
	Name              string   `json:"name" binding:"required"`
	Age               int      `json:"age" binding:"required"`
	Gender            string   `json:"gender" binding:"required"`
	ActivityLevel     string   `json:"activity_level"`
	MedicalConditions []string `json:"medical_conditions"`
	FitnessGoal       string   `json:"fitness_goal"`
	StepGoal          int      `json:"step_goal"`
}

func (h *RecommendationHandler) UpsertProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := domain.NewUserProfile(userID, req.Name, req.Age, req.Gender, req.ActivityLevel, req.FitnessGoal, req.MedicalConditions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StepGoal > 0 {
		profile.StepGoal = req.StepGoal
	}

	if err := h.profiles.Upsert(c.Request.Context(), profile); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *RecommendationHandler) SetPreferences(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var prefs domain.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.SetPreferences(userID, prefs)
	c.JSON(http.StatusOK, prefs)
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recommendations", h.Recommendations)
	router.POST("/tasks/:id/toggle", h.ToggleCompletion)
	router.PUT("/profile", h.UpsertProfile)
	router.PUT("/preferences", h.SetPreferences)
}
