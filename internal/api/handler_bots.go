package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse-ops-backend/internal/fleet"
)

// ListBots handles GET /api/bots.
func (h *Handler) ListBots(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Bots())
}

// GetBot handles GET /api/bots/:id.
func (h *Handler) GetBot(c *gin.Context) {
	b, err := h.app.Bot(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBotHistory handles GET /api/bots/:id/history, newest entry first.
func (h *Handler) GetBotHistory(c *gin.Context) {
	b, err := h.app.Bot(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	history := b.History
	if history == nil {
		history = []fleet.HistoryEntry{}
	}
	c.JSON(http.StatusOK, history)
}

// assignTaskRequest carries either a full task description, or a kind that
// is combined with the details the way the operator form does it.
type assignTaskRequest struct {
	Task    string `json:"task"`
	Kind    string `json:"kind"`
	Details string `json:"details"`
}

// AssignTask handles POST /api/bots/:id/tasks.
func (h *Handler) AssignTask(c *gin.Context) {
	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	description := req.Task
	if description == "" && req.Kind != "" {
		description = fleet.DescribeTask(req.Kind, req.Details)
	}

	b, err := h.app.AssignTask(c.Request.Context(), c.Param("id"), description, req.Details)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type botActionRequest struct {
	Action fleet.Action `json:"action" binding:"required"`
}

// ApplyAction handles POST /api/bots/:id/actions.
func (h *Handler) ApplyAction(c *gin.Context) {
	var req botActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	b, err := h.app.ApplyAction(c.Request.Context(), c.Param("id"), req.Action)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
