package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCoPilot handles GET /api/ai/copilot.
func (h *Handler) GetCoPilot(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Suggestions())
}

// RefreshCoPilot handles POST /api/ai/copilot/refresh.
func (h *Handler) RefreshCoPilot(c *gin.Context) {
	seq := h.app.BeginSuggestions()
	list, err := h.ai.CoPilotSuggestions(c.Request.Context(), h.app.Products(), h.app.Bots())
	if err != nil {
		h.failAI(c, err)
		return
	}
	if !h.app.SetSuggestions(seq, list) {
		c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer co-pilot refresh"})
		return
	}
	c.JSON(http.StatusOK, h.app.Suggestions())
}

// ExecuteCoPilot handles POST /api/ai/copilot/:id/execute.
func (h *Handler) ExecuteCoPilot(c *gin.Context) {
	res, err := h.app.ExecuteSuggestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DismissCoPilot handles DELETE /api/ai/copilot/:id.
func (h *Handler) DismissCoPilot(c *gin.Context) {
	if err := h.app.DismissSuggestion(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
