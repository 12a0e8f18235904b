package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitanav/wellness-engine/internal/adapters/handler/http/middleware"
	"github.com/vitanav/wellness-engine/internal/core/services"
)

type PatternHandler struct {
	service *services.PatternService
}

func NewPatternHandler(service *services.PatternService) *PatternHandler {
	return &PatternHandler{
		service: service,
	}
}

func (h *PatternHandler) Patterns(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pattern, err := h.service.Patterns(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, pattern)
}

func (h *PatternHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/patterns", h.Patterns)
}
