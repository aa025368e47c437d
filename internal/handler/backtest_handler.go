package handler

import (
	"net/http"

	"services/ea-service/internal/model"
	"services/ea-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BacktestHandler handles backtest simulation and code generation requests
type BacktestHandler struct {
	backtestService *service.BacktestService
	codegenService  *service.CodegenService
	logger          *zap.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(backtestService *service.BacktestService, codegenService *service.CodegenService, logger *zap.Logger) *BacktestHandler {
	return &BacktestHandler{
		backtestService: backtestService,
		codegenService:  codegenService,
		logger:          logger,
	}
}

// Run handles simulating a backtest for a configuration
// POST /api/v1/backtest
func (h *BacktestHandler) Run(c *gin.Context) {
	var request model.BacktestRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.backtestService.Run(request.Configuration)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateCode handles rendering EA source code from a configuration
// POST /api/v1/eacode
func (h *BacktestHandler) GenerateCode(c *gin.Context) {
	var request model.CodeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := h.codegenService.Generate(request.Configuration)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.CodeResult{Code: code})
}
