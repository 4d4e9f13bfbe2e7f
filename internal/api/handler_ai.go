package api

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse-ops-backend/internal/ai"
)

// GetMarketPrediction handles GET /api/ai/market-prediction.
func (h *Handler) GetMarketPrediction(c *gin.Context) {
	text, err := h.ai.MarketPrediction(c.Request.Context())
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// GetRecommendation handles GET /api/ai/recommendation.
func (h *Handler) GetRecommendation(c *gin.Context) {
	text, err := h.ai.Recommendation(c.Request.Context())
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// GetInsight handles GET /api/ai/insight, a short summary of the live
// dashboard.
func (h *Handler) GetInsight(c *gin.Context) {
	text, err := h.ai.DashboardInsight(c.Request.Context(), h.app.Products(), h.app.Bots())
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

type questionRequest struct {
	Question string `json:"question" binding:"required"`
}

// PostAnalyst handles POST /api/ai/analyst.
func (h *Handler) PostAnalyst(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	text, err := h.ai.AnalyzeInventory(c.Request.Context(), req.Question, h.app.Products())
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// PostChat handles POST /api/ai/chat.
func (h *Handler) PostChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	text, err := h.ai.Chat(c.Request.Context(), req.Message, h.app.Products(), h.app.Bots())
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// PostReorder handles POST /api/ai/reorder. The suggested products are
// added to the reorder flags and the full flag list is returned.
func (h *Handler) PostReorder(c *gin.Context) {
	ctx := c.Request.Context()
	ids, err := h.ai.ReorderSuggestion(ctx, h.app.Products())
	if err != nil {
		h.failAI(c, err)
		return
	}
	added, err := h.app.FlagReorder(ctx, ids)
	if err != nil {
		h.fail(c, err)
		return
	}
	if added == nil {
		added = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggested": ids, "added": added, "product_ids": h.app.ReorderFlags()})
}

type delegateRequest struct {
	Task string `json:"task" binding:"required"`
}

// PostDelegate handles POST /api/ai/delegate. Only the latest request's
// answer is kept; an answer that arrives after a newer request was issued
// is reported as a conflict.
func (h *Handler) PostDelegate(c *gin.Context) {
	var req delegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	seq := h.app.BeginDelegation()
	d, err := h.ai.DelegateTask(c.Request.Context(), req.Task, h.app.Bots())
	if err != nil {
		h.failAI(c, err)
		return
	}
	if !h.app.SetDelegation(seq, d) {
		c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer delegation request"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetDelegation handles GET /api/ai/delegate.
func (h *Handler) GetDelegation(c *gin.Context) {
	d, ok := h.app.Delegation()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no delegation pending"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// ConfirmDelegation handles POST /api/ai/delegate/confirm: the latest
// recommendation is assigned through the normal task rules, once.
func (h *Handler) ConfirmDelegation(c *gin.Context) {
	b, err := h.app.ConfirmDelegation(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type reportSummaryRequest struct {
	Type ai.ReportType `json:"type" binding:"required"`
}

// PostReportSummary handles POST /api/ai/report-summary.
func (h *Handler) PostReportSummary(c *gin.Context) {
	var req reportSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	text, err := h.ai.ReportSummary(c.Request.Context(), req.Type, h.app.Products(), h.app.Bots())
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

type forecastRequest struct {
	Points []ai.ForecastPoint `json:"points"`
}

// PostForecastExplanation handles POST /api/ai/forecast-explanation.
func (h *Handler) PostForecastExplanation(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	text, err := h.ai.ForecastExplanation(c.Request.Context(), req.Points)
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

type videoRequest struct {
	Prompt      string `json:"prompt"`
	Image       string `json:"image"` // base64, no data: prefix
	MIMEType    string `json:"mimeType"`
	AspectRatio string `json:"aspectRatio"`
}

// PostVideo handles POST /api/ai/video. The request blocks until the
// generation job finishes or times out.
func (h *Handler) PostVideo(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	var image []byte
	if req.Image != "" {
		var err error
		if image, err = base64.StdEncoding.DecodeString(req.Image); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image must be base64 encoded"})
			return
		}
	}
	v, err := h.ai.GenerateVideo(c.Request.Context(), ai.VideoRequest{
		Prompt:      req.Prompt,
		Image:       image,
		MIMEType:    req.MIMEType,
		AspectRatio: req.AspectRatio,
	})
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
