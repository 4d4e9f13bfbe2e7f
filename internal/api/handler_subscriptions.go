package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"warehouse-ops-backend/internal/store"
)

type putSubscriptionRequest struct {
	Endpoint       string   `json:"endpoint" binding:"required"`
	P256DH         string   `json:"p256dh" binding:"required"`
	Auth           string   `json:"auth" binding:"required"`
	SubscribedBots []string `json:"subscribed_bots"`
}

// PutSubscription handles the creation or replacement of a subscription.
// An empty bot list subscribes to every bot.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	ids := make([]string, 0, len(req.SubscribedBots))
	for _, id := range req.SubscribedBots {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			ids = append(ids, id)
		}
	}

	err := h.store.PutSubscription(c.Request.Context(), store.Subscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		BotIDs:   ids,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam returns a query value without URL decoding. Push endpoints
// are matched byte for byte with what the browser registered.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription handles the retrieval of a subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	sub, err := h.store.GetSubscription(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		} else {
			h.fail(c, err)
		}
		return
	}

	ids := sub.BotIDs
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"subscribed_bots": ids})
}

func (h *Handler) pushEnabled() bool {
	return h.webpush != nil && h.webpush.VAPIDPublicKey != "" && h.webpush.VAPIDPrivateKey != ""
}

// GetVAPIDPublicKey handles GET /api/vapid_public_key. Browsers need the key
// before they can subscribe, so a server without VAPID keys answers 503.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if !h.pushEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
