package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/apierr"
)

// respondError translates a service/repository error into its status code
// and structured body. Unclassified errors become a generic 500.
func respondError(c *gin.Context, err error) {
	c.JSON(apierr.Status(err), gin.H{"error": apierr.Message(err)})
}

// parsePagination reads page/page_size query parameters with the usual
// defaults; page_size is capped at 100.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}
	return
}

// parseID reads an integer path parameter, writing a 400 on failure.
func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}

// respondPage writes a list response with the pagination envelope.
func respondPage(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}
