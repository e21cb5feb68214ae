package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"typeforge/internal/service"
)

// CareerHandler mantiene dependencias para endpoints de carreras.
type CareerHandler struct {
	logger  *zap.Logger
	careers *service.CareerService
}

func NewCareerHandler(logger *zap.Logger, careers *service.CareerService) *CareerHandler {
	return &CareerHandler{logger: logger, careers: careers}
}

// ListClusters maneja GET /careers/clusters.
func (h *CareerHandler) ListClusters(c *gin.Context) {
	clusters, err := h.careers.ListClusters(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clusters": clusters})
}

// Recommendations maneja GET /assessment/sessions/:token/careers.
func (h *CareerHandler) Recommendations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	ranked, err := h.careers.RecommendationsForSession(c.Request.Context(), c.Param("token"), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"careers": ranked, "total": len(ranked)})
}
