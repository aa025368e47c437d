package handler

import (
	"net/http"
	"strconv"

	"services/ea-service/internal/model"
	"services/ea-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModelHandler handles EA model HTTP requests
type ModelHandler struct {
	modelService   *service.ModelService
	rankingService *service.RankingService
	logger         *zap.Logger
}

// NewModelHandler creates a new EA model handler
func NewModelHandler(modelService *service.ModelService, rankingService *service.RankingService, logger *zap.Logger) *ModelHandler {
	return &ModelHandler{
		modelService:   modelService,
		rankingService: rankingService,
		logger:         logger,
	}
}

// Create handles creating a new EA model
// POST /api/v1/models
func (h *ModelHandler) Create(c *gin.Context) {
	var request model.EAModelCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.modelService.Create(c.Request.Context(), &request)
	if err != nil {
		h.logger.Error("Failed to create EA model", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListByOwner handles listing all EA models of a user. The path parameter
// is the owner's user id, not a model id.
// GET /api/v1/models/{ownerId}
func (h *ModelHandler) ListByOwner(c *gin.Context) {
	ownerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner ID"})
		return
	}

	models, err := h.modelService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.logger.Error("Failed to list EA models", zap.Error(err), zap.Int("owner_id", ownerID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models)
}

// Update handles replacing the mutable fields of an EA model
// PUT /api/v1/models/{id}
func (h *ModelHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	var request model.EAModelUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.modelService.Update(c.Request.Context(), id, &request)
	if err != nil {
		h.logger.Error("Failed to update EA model", zap.Error(err), zap.Int("id", id))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles removing an EA model and its version history
// DELETE /api/v1/models/{id}
func (h *ModelHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	if err := h.modelService.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete EA model", zap.Error(err), zap.Int("id", id))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "EA model deleted"})
}

// AttachBacktest handles overwriting a model's backtest snapshot
// POST /api/v1/models/{id}/backtest-update
func (h *ModelHandler) AttachBacktest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	var request model.BacktestSnapshot
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.modelService.AttachBacktest(c.Request.Context(), id, &request)
	if err != nil {
		h.logger.Error("Failed to attach backtest result", zap.Error(err), zap.Int("id", id))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Rank handles recomputing the top-model flags
// POST /api/v1/models/rank
func (h *ModelHandler) Rank(c *gin.Context) {
	top, err := h.rankingService.Recompute(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to recompute ranking", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, top)
}
