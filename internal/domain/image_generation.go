package domain

import (
	"context"
	"time"
)

// Prediction statuses reported by the inference service
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// ImageGenerationRequest represents the parameters for image generation
type ImageGenerationRequest struct {
	Prompt        string
	GuidanceScale int
}

// ImageGenerationResponse represents a prediction returned by the image generation service
type ImageGenerationResponse struct {
	ID     string
	Status string
	Output []string
	Error  string
}

// Terminal reports whether the prediction will not change status again
func (r *ImageGenerationResponse) Terminal() bool {
	switch r.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// GenerationResult is the outcome of one successful generation as reported to the user.
// Overloaded is set when the call took longer than the slow-response threshold.
type GenerationResult struct {
	URL        string
	Elapsed    time.Duration
	Overloaded bool
}

// ImageGenerationService defines the interface for image generation operations
type ImageGenerationService interface {
	// GenerateImage starts generating an image based on the provided prompt
	GenerateImage(ctx context.Context, req ImageGenerationRequest) (*ImageGenerationResponse, error)

	// CheckGenerationStatus checks the status of an image generation request
	CheckGenerationStatus(ctx context.Context, id string) (*ImageGenerationResponse, error)
}
