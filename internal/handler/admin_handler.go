package handler

import (
	"net/http"

	"services/ea-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler handles dashboard endpoints
type AdminHandler struct {
	rankingService *service.RankingService
	modelService   *service.ModelService
	logger         *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(rankingService *service.RankingService, modelService *service.ModelService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		rankingService: rankingService,
		modelService:   modelService,
		logger:         logger,
	}
}

// TopModels handles listing the current top model set
// GET /api/v1/admin/top-eamodels
func (h *AdminHandler) TopModels(c *gin.Context) {
	top, err := h.rankingService.TopModels(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get top models", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, top)
}

// Analytics handles the aggregate analytics summary
// GET /api/v1/analytics
func (h *AdminHandler) Analytics(c *gin.Context) {
	summary, err := h.modelService.GetAnalytics(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get analytics", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
