package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"warehouse-ops-backend/internal/ai"
	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
	"warehouse-ops-backend/internal/notification"
	"warehouse-ops-backend/internal/report"
	"warehouse-ops-backend/internal/state"
	"warehouse-ops-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	app     *state.App
	ai      *ai.Gateway
	store   store.Store
	feed    *notification.Feed
	webpush *webpush.Options
	log     zerolog.Logger
}

// Deps are the collaborators a Handler needs. Feed and Webpush may be nil.
type Deps struct {
	App     *state.App
	AI      *ai.Gateway
	Store   store.Store
	Feed    *notification.Feed
	Webpush *webpush.Options
	Log     zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		app:     d.App,
		ai:      d.AI,
		store:   d.Store,
		feed:    d.Feed,
		webpush: d.Webpush,
		log:     d.Log,
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrInvalidProduct),
		errors.Is(err, fleet.ErrDetailsRequired),
		errors.Is(err, fleet.ErrEmptyTask),
		errors.Is(err, fleet.ErrUnknownAction),
		errors.Is(err, ai.ErrInvalidRequest),
		errors.Is(err, state.ErrNotActionable),
		errors.Is(err, report.ErrUnknownReport):
		return http.StatusBadRequest
	case errors.Is(err, fleet.ErrBotNotFound),
		errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, state.ErrSuggestionNotFound),
		errors.Is(err, state.ErrNoDelegation),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ai.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// failAI is fail for gateway calls: anything that is not a known client or
// configuration error is an upstream failure.
func (h *Handler) failAI(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	h.log.Warn().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("ai request failed")
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}
