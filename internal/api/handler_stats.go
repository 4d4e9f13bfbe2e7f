package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"warehouse-ops-backend/internal/notification"
)

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Stats())
}

// GetNotifications handles GET /api/notifications?limit=N, the live feed of
// bot transitions, operator changes and stock alerts.
func (h *Handler) GetNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	entries := []notification.Entry{}
	if h.feed != nil {
		entries = h.feed.Recent(limit)
	}
	c.JSON(http.StatusOK, entries)
}
