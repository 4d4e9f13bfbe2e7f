package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"warehouse-ops-backend/config"
	"warehouse-ops-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg config.ServerConfig, handler *Handler, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(log))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Only the static market commentary is cached; everything else reflects
	// live state.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/products", handler.ListProducts)
		api.POST("/products", handler.CreateProduct)
		api.GET("/products/reorder-flags", handler.GetReorderFlags)
		api.PUT("/products/:id", handler.UpdateProduct)

		api.GET("/bots", handler.ListBots)
		api.GET("/bots/:id", handler.GetBot)
		api.GET("/bots/:id/history", handler.GetBotHistory)
		api.POST("/bots/:id/tasks", handler.AssignTask)
		api.POST("/bots/:id/actions", handler.ApplyAction)

		api.GET("/stats", handler.GetStats)
		api.GET("/notifications", handler.GetNotifications)
		api.GET("/reports/:file", handler.GetReport)

		api.GET("/settings/:key", handler.GetSetting)
		api.PUT("/settings/:key", handler.PutSetting)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		ai := api.Group("/ai")
		ai.GET("/market-prediction", caching, handler.GetMarketPrediction)
		ai.GET("/recommendation", caching, handler.GetRecommendation)
		ai.GET("/insight", handler.GetInsight)
		ai.POST("/analyst", handler.PostAnalyst)
		ai.POST("/chat", handler.PostChat)
		ai.POST("/reorder", handler.PostReorder)
		ai.GET("/delegate", handler.GetDelegation)
		ai.POST("/delegate", handler.PostDelegate)
		ai.POST("/delegate/confirm", handler.ConfirmDelegation)
		ai.GET("/copilot", handler.GetCoPilot)
		ai.POST("/copilot/refresh", handler.RefreshCoPilot)
		ai.POST("/copilot/:id/execute", handler.ExecuteCoPilot)
		ai.DELETE("/copilot/:id", handler.DismissCoPilot)
		ai.POST("/report-summary", handler.PostReportSummary)
		ai.POST("/forecast-explanation", handler.PostForecastExplanation)
		ai.POST("/video", handler.PostVideo)
	}

	return r
}
