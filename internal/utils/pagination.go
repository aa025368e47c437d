package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationParams holds pagination-related query parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// ParsePaginationParams parses and validates page/limit query parameters,
// capping limit at maxLimit
func ParsePaginationParams(c *gin.Context, defaultLimit, maxLimit int) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	return PaginationParams{Page: page, Limit: limit}
}

// PaginationMetadata represents the standardized pagination metadata
type PaginationMetadata struct {
	TotalItems   int `json:"totalItems"`
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// SendPaginatedResponse sends a standardized paginated API response
func SendPaginatedResponse(c *gin.Context, statusCode int, data interface{}, totalItems, page, limit int) {
	totalPages := (totalItems + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	c.JSON(statusCode, gin.H{
		"data": data,
		"pagination": PaginationMetadata{
			TotalItems:   totalItems,
			CurrentPage:  page,
			TotalPages:   totalPages,
			ItemsPerPage: limit,
		},
	})
}
