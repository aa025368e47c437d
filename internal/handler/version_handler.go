package handler

import (
	"net/http"
	"strconv"

	"services/ea-service/internal/model"
	"services/ea-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VersionHandler handles version snapshot HTTP requests
type VersionHandler struct {
	versionService *service.VersionService
	logger         *zap.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(versionService *service.VersionService, logger *zap.Logger) *VersionHandler {
	return &VersionHandler{
		versionService: versionService,
		logger:         logger,
	}
}

// Save handles appending a code snapshot for a model
// POST /api/v1/models/{id}/versions
func (h *VersionHandler) Save(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	var request model.VersionCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionService.Save(c.Request.Context(), id, request.Code)
	if err != nil {
		h.logger.Error("Failed to save version", zap.Error(err), zap.Int("model_id", id))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, version)
}

// List handles listing all versions of a model, most recent first
// GET /api/v1/models/{id}/versions
func (h *VersionHandler) List(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	versions, err := h.versionService.List(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list versions", zap.Error(err), zap.Int("model_id", id))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

// Rollback handles restoring a model's code from a stored version
// POST /api/v1/models/{id}/rollback
func (h *VersionHandler) Rollback(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	var request model.RollbackRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.versionService.Rollback(c.Request.Context(), id, request.VersionID)
	if err != nil {
		h.logger.Error("Failed to rollback model", zap.Error(err),
			zap.Int("model_id", id), zap.Int("version_id", request.VersionID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
