package handler

import (
	"errors"
	"net/http"

	"services/ea-service/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP status codes:
// validation -> 400, not found -> 404, anything else -> 500.
func respondError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body := gin.H{"error": ve.Message}
		if ve.Field != "" {
			body["details"] = gin.H{"field": ve.Field}
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	var nfe *apperr.NotFoundError
	if errors.As(err, &nfe) {
		c.JSON(http.StatusNotFound, gin.H{"error": nfe.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal server error",
		"details": err.Error(),
	})
}
