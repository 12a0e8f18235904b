package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitanav/wellness-engine/internal/adapters/handler/http/middleware"
	"github.com/vitanav/wellness-engine/internal/core/domain"
	"github.com/vitanav/wellness-engine/internal/core/services"
)

type ActivityHandler struct {
	service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		service: service,
	}
}

type stepSampleRequest struct {
	Timestamp    time.Time `json:"timestamp" binding:"required"`
	Count        int       `json:"count"`
	Source       string    `json:"source" binding:"required"`
	ActivityType string    `json:"activity_type" binding:"required"`
	Confidence   float64   `json:"confidence"`
}

type screenSampleRequest struct {
	Timestamp       time.Time `json:"timestamp" binding:"required"`
	AppName         string    `json:"app_name" binding:"required"`
	DurationMinutes float64   `json:"duration_minutes" binding:"required"`
	Category        string    `json:"category" binding:"required"`
	IsWellnessApp   bool      `json:"is_wellness_app"`
}

func (h *ActivityHandler) IngestSteps(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req stepSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sample, err := domain.NewRawStepSample(req.Timestamp, req.Count, req.Source, req.ActivityType, req.Confidence)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.IngestSteps(c.Request.Context(), userID, *sample); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "buffered"})
}

func (h *ActivityHandler) IngestScreen(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req screenSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sample, err := domain.NewRawScreenSample(req.Timestamp, req.AppName, req.DurationMinutes, req.Category, req.IsWellnessApp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.IngestScreen(c.Request.Context(), userID, *sample); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "buffered"})
}

func (h *ActivityHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	summary, err := h.service.Summary(c.Request.Context(), userID, date)
	if err != nil {
		if errors.Is(err, domain.ErrSummaryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no summary for date"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activityGroup := router.Group("/activity")
	{
		activityGroup.POST("/steps", h.IngestSteps)
		activityGroup.POST("/screen", h.IngestScreen)
		activityGroup.GET("/summary", h.Summary)
	}
}
