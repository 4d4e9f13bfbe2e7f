package ai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"warehouse-ops-backend/config"
)

// GenAIModel implements Model with Google's Gemini and Veo models.
type GenAIModel struct {
	client     *genai.Client
	textModel  string
	videoModel string
	poll       time.Duration
}

// NewGenAIModel creates a Gemini client for cfg. The API key is required.
func NewGenAIModel(ctx context.Context, cfg config.AIConfig) (*GenAIModel, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	poll := cfg.VideoPoll
	if poll <= 0 {
		poll = 10 * time.Second
	}
	return &GenAIModel{
		client:     client,
		textModel:  cfg.TextModel,
		videoModel: cfg.VideoModel,
		poll:       poll,
	}, nil
}

// GenerateText sends one prompt and returns the text of the first candidate.
func (m *GenAIModel) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.textModel, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	return text, nil
}

// GenerateVideo starts a video job and polls it until it finishes or ctx
// expires.
func (m *GenAIModel) GenerateVideo(ctx context.Context, req VideoRequest) (Video, error) {
	var image *genai.Image
	if len(req.Image) > 0 {
		image = &genai.Image{ImageBytes: req.Image, MIMEType: req.MIMEType}
	}

	op, err := m.client.Models.GenerateVideos(ctx, m.videoModel, req.Prompt, image, &genai.GenerateVideosConfig{
		AspectRatio:    req.AspectRatio,
		NumberOfVideos: 1,
	})
	if err != nil {
		return Video{}, fmt.Errorf("GenAI video request failed: %w", err)
	}

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()
	for !op.Done {
		select {
		case <-ctx.Done():
			return Video{}, fmt.Errorf("video generation did not finish: %w", ctx.Err())
		case <-ticker.C:
		}
		op, err = m.client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return Video{}, fmt.Errorf("GenAI video poll failed: %w", err)
		}
	}

	if op.Error != nil {
		return Video{}, fmt.Errorf("%w: video operation failed: %v", ErrInvalidResponse, op.Error)
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return Video{}, fmt.Errorf("%w: video operation returned no video", ErrInvalidResponse)
	}
	v := op.Response.GeneratedVideos[0].Video
	if v.URI == "" {
		return Video{}, fmt.Errorf("%w: video has no uri", ErrInvalidResponse)
	}
	return Video{URI: v.URI, MIMEType: v.MIMEType}, nil
}
