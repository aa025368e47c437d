package handler

import (
	"net/http"
	"strconv"

	"services/ea-service/internal/model"
	"services/ea-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscriptionHandler handles subscription HTTP requests
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	logger              *zap.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService *service.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// ActivateFree handles free-tier activation
// POST /api/v1/subscriptions/free
func (h *SubscriptionHandler) ActivateFree(c *gin.Context) {
	var request model.SubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subscriptionService.ActivateFree(c.Request.Context(), request.UserID)
	if err != nil {
		h.logger.Error("Failed to activate subscription", zap.Error(err), zap.Int("user_id", request.UserID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Status handles fetching a user's subscription
// GET /api/v1/subscriptions/{userId}
func (h *SubscriptionHandler) Status(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	sub, err := h.subscriptionService.Status(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get subscription", zap.Error(err), zap.Int("user_id", userID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Upgrade handles upgrading a subscription to premium
// POST /api/v1/subscriptions/upgrade
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	var request model.SubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subscriptionService.Upgrade(c.Request.Context(), request.UserID)
	if err != nil {
		h.logger.Error("Failed to upgrade subscription", zap.Error(err), zap.Int("user_id", request.UserID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}
