package handler

import (
	"net/http"

	"services/ea-service/internal/model"
	"services/ea-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler handles payment order HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Create handles opening a pending payment order
// POST /api/v1/payments/create
func (h *PaymentHandler) Create(c *gin.Context) {
	var request model.PaymentOrderCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), &request)
	if err != nil {
		h.logger.Error("Failed to create payment order", zap.Error(err), zap.Int("user_id", request.UserID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}
