package ai

import "context"

// TextRequest is one prompt for the text model.
type TextRequest struct {
	System string // system instruction, optional
	Prompt string
	JSON   bool // ask for an application/json response
}

// Model is the hosted generative model the gateway talks to.
type Model interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	GenerateVideo(ctx context.Context, req VideoRequest) (Video, error)
}
