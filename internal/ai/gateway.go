// Package ai forwards warehouse context to a hosted generative model and
// validates what comes back. Every call is a single attempt bounded by a
// timeout; callers decide whether to try again.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"warehouse-ops-backend/config"
	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
	"warehouse-ops-backend/internal/parse"
)

// Gateway exposes the warehouse AI operations.
type Gateway struct {
	model        Model
	timeout      time.Duration
	videoTimeout time.Duration
	log          zerolog.Logger
}

// NewGateway wraps model. A nil model yields a gateway whose every operation
// returns ErrNotConfigured.
func NewGateway(model Model, cfg config.AIConfig, log zerolog.Logger) *Gateway {
	g := &Gateway{
		model:        model,
		timeout:      cfg.Timeout,
		videoTimeout: cfg.VideoTimeout,
		log:          log.With().Str("component", "ai").Logger(),
	}
	if g.timeout <= 0 {
		g.timeout = 30 * time.Second
	}
	if g.videoTimeout <= 0 {
		g.videoTimeout = 5 * time.Minute
	}
	return g
}

// Configured reports whether a model is available.
func (g *Gateway) Configured() bool {
	return g.model != nil
}

func (g *Gateway) text(ctx context.Context, op string, req TextRequest) (string, error) {
	if g.model == nil {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	out, err := g.model.GenerateText(ctx, req)
	if err != nil {
		g.log.Warn().Err(err).Str("op", op).Msg("ai request failed")
		return "", fmt.Errorf("%s: %w", op, err)
	}
	g.log.Debug().Str("op", op).Dur("took", time.Since(start)).Msg("ai request done")
	return strings.TrimSpace(out), nil
}

func (g *Gateway) decode(ctx context.Context, op string, req TextRequest, v any) error {
	req.JSON = true
	out, err := g.text(ctx, op, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(UnwrapCodeFence(out)), v); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidResponse, err)
	}
	return nil
}

// MarketPrediction returns a short market outlook.
func (g *Gateway) MarketPrediction(ctx context.Context) (string, error) {
	return g.text(ctx, "market prediction", TextRequest{Prompt: marketPredictionPrompt})
}

// Recommendation returns one strategic recommendation.
func (g *Gateway) Recommendation(ctx context.Context) (string, error) {
	return g.text(ctx, "recommendation", TextRequest{Prompt: recommendationPrompt})
}

// DashboardInsight comments on the current inventory and fleet.
func (g *Gateway) DashboardInsight(ctx context.Context, products []inventory.Product, bots []fleet.Bot) (string, error) {
	return g.text(ctx, "dashboard insight", TextRequest{Prompt: insightPrompt(products, bots)})
}

// AnalyzeInventory answers a free-form question about the inventory.
func (g *Gateway) AnalyzeInventory(ctx context.Context, question string, products []inventory.Product) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", ErrInvalidRequest)
	}
	return g.text(ctx, "inventory analysis", TextRequest{Prompt: analystPrompt(question, products)})
}

// Chat answers the operator as the warehouse assistant.
func (g *Gateway) Chat(ctx context.Context, message string, products []inventory.Product, bots []fleet.Bot) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}
	return g.text(ctx, "chat", TextRequest{System: assistantPersona, Prompt: chatPrompt(message, products, bots)})
}

// ReorderSuggestion picks which low-stock products to reorder first. Only
// low-stock products are sent; with none the model is not called. Ids the
// model invents are dropped.
func (g *Gateway) ReorderSuggestion(ctx context.Context, products []inventory.Product) ([]string, error) {
	low := inventory.FilterByStatus(products, inventory.StatusLowStock)
	if len(low) == 0 {
		return []string{}, nil
	}

	var resp struct {
		ProductIDs []string `json:"product_ids"`
	}
	if err := g.decode(ctx, "reorder suggestion", TextRequest{Prompt: reorderPrompt(low)}, &resp); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(low))
	for _, p := range low {
		known[p.ID] = true
	}
	ids := []string{}
	for _, id := range resp.ProductIDs {
		id = strings.ToUpper(strings.TrimSpace(id))
		if known[id] {
			ids = append(ids, id)
			known[id] = false
		}
	}
	return ids, nil
}

// DelegateTask asks the model which bot should take a task. The answer must
// name an existing bot that is not in maintenance.
func (g *Gateway) DelegateTask(ctx context.Context, description string, bots []fleet.Bot) (Delegation, error) {
	if strings.TrimSpace(description) == "" {
		return Delegation{}, fmt.Errorf("%w: task description is required", ErrInvalidRequest)
	}

	var d Delegation
	if err := g.decode(ctx, "task delegation", TextRequest{Prompt: delegationPrompt(description, bots)}, &d); err != nil {
		return Delegation{}, err
	}
	d.BotID = strings.TrimSpace(d.BotID)
	d.Task = strings.TrimSpace(d.Task)

	i := fleet.Find(bots, d.BotID)
	switch {
	case d.BotID == "" || d.Task == "":
		return Delegation{}, fmt.Errorf("task delegation: %w: botId and task are required", ErrInvalidResponse)
	case i < 0:
		return Delegation{}, fmt.Errorf("task delegation: %w: unknown bot %q", ErrInvalidResponse, d.BotID)
	case bots[i].Status == fleet.StatusMaintenance:
		return Delegation{}, fmt.Errorf("task delegation: %w: bot %s is in maintenance", ErrInvalidResponse, d.BotID)
	case fleet.RequiresDetails(d.Task) && parse.DetailsFor(d.Task) == "":
		return Delegation{}, fmt.Errorf("task delegation: %w: task %q has no details", ErrInvalidResponse, d.Task)
	}
	return d, nil
}

// CoPilotSuggestions asks for action plans. Every suggestion gets a fresh id
// so plans from different refreshes never share one; any malformed
// suggestion fails the call.
func (g *Gateway) CoPilotSuggestions(ctx context.Context, products []inventory.Product, bots []fleet.Bot) ([]Suggestion, error) {
	var list []Suggestion
	if err := g.decode(ctx, "co-pilot", TextRequest{Prompt: coPilotPrompt(products, bots)}, &list); err != nil {
		return nil, err
	}

	for i := range list {
		if err := list[i].Validate(); err != nil {
			return nil, fmt.Errorf("co-pilot: %w", err)
		}
		list[i].ID = uuid.NewString()
	}
	if list == nil {
		list = []Suggestion{}
	}
	return list, nil
}

// ReportSummary writes an executive summary of a report.
func (g *Gateway) ReportSummary(ctx context.Context, kind ReportType, products []inventory.Product, bots []fleet.Bot) (string, error) {
	if kind != ReportInventory && kind != ReportBotPerformance {
		return "", fmt.Errorf("%w: unknown report type %q", ErrInvalidRequest, kind)
	}
	return g.text(ctx, "report summary", TextRequest{Prompt: reportSummaryPrompt(kind, products, bots)})
}

// ForecastExplanation explains a demand forecast series.
func (g *Gateway) ForecastExplanation(ctx context.Context, points []ForecastPoint) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("%w: forecast points are required", ErrInvalidRequest)
	}
	return g.text(ctx, "forecast explanation", TextRequest{Prompt: forecastPrompt(points)})
}

// GenerateVideo runs a video generation job to completion.
func (g *Gateway) GenerateVideo(ctx context.Context, req VideoRequest) (Video, error) {
	if g.model == nil {
		return Video{}, ErrNotConfigured
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return Video{}, fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}
	if len(req.Image) > 0 && req.MIMEType == "" {
		return Video{}, fmt.Errorf("%w: image mime type is required", ErrInvalidRequest)
	}
	switch req.AspectRatio {
	case "":
		req.AspectRatio = "16:9"
	case "16:9", "9:16":
	default:
		return Video{}, fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidRequest, req.AspectRatio)
	}

	ctx, cancel := context.WithTimeout(ctx, g.videoTimeout)
	defer cancel()

	g.log.Info().Str("aspect_ratio", req.AspectRatio).Bool("with_image", len(req.Image) > 0).Msg("starting video generation")
	v, err := g.model.GenerateVideo(ctx, req)
	if err != nil {
		return Video{}, fmt.Errorf("video generation: %w", err)
	}
	if v.MIMEType == "" {
		v.MIMEType = "video/mp4"
	}
	return v, nil
}
