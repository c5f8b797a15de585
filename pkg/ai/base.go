package ai

import (
	"context"
)

// Provider is a hosted text-generation backend.
type Provider interface {
	// Generate returns the model's completion of req.Prompt.
	Generate(ctx context.Context, req *GenerationRequest) (string, error)

	// IsAvailable checks if the provider is configured
	IsAvailable() bool

	// Name returns the provider name
	Name() string
}

// GenerationRequest is a single-prompt completion with its sampling settings.
type GenerationRequest struct {
	Prompt          string
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

// DefaultSampling is tuned for short spoken replies.
func DefaultSampling() GenerationRequest {
	return GenerationRequest{
		Temperature:     0.7,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 200,
	}
}
