package handler

import (
	"net/http"
	"strconv"

	"services/ea-service/internal/model"
	"services/ea-service/internal/service"
	"services/ea-service/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MarketplaceHandler handles marketplace HTTP requests
type MarketplaceHandler struct {
	marketplaceService *service.MarketplaceService
	logger             *zap.Logger
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(marketplaceService *service.MarketplaceService, logger *zap.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceService: marketplaceService,
		logger:             logger,
	}
}

// Share handles submitting a model for marketplace approval
// POST /api/v1/models/{id}/share
func (h *MarketplaceHandler) Share(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	var request model.ShareRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shared, err := h.marketplaceService.Share(c.Request.Context(), id, request.Price)
	if err != nil {
		h.logger.Error("Failed to share model", zap.Error(err), zap.Int("id", id))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shared)
}

// Approve handles approving a pending marketplace model
// POST /api/v1/models/{id}/approve
func (h *MarketplaceHandler) Approve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	approved, err := h.marketplaceService.Approve(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to approve model", zap.Error(err), zap.Int("id", id))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, approved)
}

// List handles listing approved, priced models
// GET /api/v1/marketplace
func (h *MarketplaceHandler) List(c *gin.Context) {
	params := utils.ParsePaginationParams(c, 20, 100)

	listings, total, err := h.marketplaceService.Listings(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		h.logger.Error("Failed to list marketplace", zap.Error(err))
		respondError(c, err)
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, listings, total, params.Page, params.Limit)
}

// Purchase handles settling a marketplace purchase
// POST /api/v1/marketplace/purchase
func (h *MarketplaceHandler) Purchase(c *gin.Context) {
	var request model.PurchaseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.marketplaceService.Purchase(c.Request.Context(), &request)
	if err != nil {
		h.logger.Error("Failed to purchase model", zap.Error(err), zap.Int("model_id", request.ModelID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}
