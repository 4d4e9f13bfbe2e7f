package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// settingKeys are the browser-side preferences the dashboard persists.
var settingKeys = map[string]bool{
	"isLoggedIn":       true,
	"userProfile":      true,
	"password":         true,
	"dbConfig":         true,
	"twoFactorEnabled": true,
	"sessionTimeout":   true,
}

// GetSetting handles GET /api/settings/:key. The stored JSON is returned
// as is.
func (h *Handler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	if !settingKeys[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown setting"})
		return
	}
	v, err := h.store.GetSetting(c.Request.Context(), key)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(v))
}

// PutSetting handles PUT /api/settings/:key with any JSON value as body.
func (h *Handler) PutSetting(c *gin.Context) {
	key := c.Param("key")
	if !settingKeys[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown setting"})
		return
	}
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		badRequest(c)
		return
	}
	if err := h.store.PutSetting(c.Request.Context(), key, string(body)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
