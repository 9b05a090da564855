package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/basel-ax/openjourney-bot/internal/config"
	"github.com/basel-ax/openjourney-bot/internal/domain"
	"github.com/basel-ax/openjourney-bot/internal/infrastructure/replicate"
)

var _ domain.ImageGenerationService = (*ImageGenerationService)(nil)

// ImageGenerationService implements the domain.ImageGenerationService interface
type ImageGenerationService struct {
	client *replicate.Client
	config config.ReplicateConfig
}

// NewImageGenerationService creates a new image generation service
func NewImageGenerationService(cfg config.ReplicateConfig) *ImageGenerationService {
	return &ImageGenerationService{
		client: replicate.NewClient(cfg.BaseURL, cfg.Token, cfg.ModelVersion),
		config: cfg,
	}
}

// GenerateImage starts a prediction for the request
func (s *ImageGenerationService) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageGenerationResponse, error) {
	resp, err := s.client.GenerateImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	return resp, nil
}

// CheckGenerationStatus checks the status of an image generation request
func (s *ImageGenerationService) CheckGenerationStatus(ctx context.Context, id string) (*domain.ImageGenerationResponse, error) {
	resp, err := s.client.CheckGenerationStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check generation status: %w", err)
	}

	return resp, nil
}

// WaitForGeneration polls the prediction until it reaches a terminal status.
// MaxAttempts of zero polls until ctx is done.
func (s *ImageGenerationService) WaitForGeneration(ctx context.Context, id string) (*domain.ImageGenerationResponse, error) {
	for i := 0; s.config.MaxAttempts <= 0 || i < s.config.MaxAttempts; i++ {
		resp, err := s.CheckGenerationStatus(ctx, id)
		if err != nil {
			return nil, err
		}

		switch resp.Status {
		case domain.StatusSucceeded:
			return resp, nil
		case domain.StatusFailed:
			return nil, fmt.Errorf("generation failed: %s", resp.Error)
		case domain.StatusCanceled:
			return nil, fmt.Errorf("generation was canceled")
		case domain.StatusStarting, domain.StatusProcessing:
			// Wait before next attempt
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.config.CheckInterval):
				continue
			}
		default:
			return nil, fmt.Errorf("unknown status: %s", resp.Status)
		}
	}

	return nil, fmt.Errorf("max attempts reached waiting for generation")
}

// Generate runs a prediction to completion and joins its output chunks into one URL
func (s *ImageGenerationService) Generate(ctx context.Context, req domain.ImageGenerationRequest) (string, error) {
	resp, err := s.GenerateImage(ctx, req)
	if err != nil {
		return "", err
	}

	if !resp.Terminal() {
		resp, err = s.WaitForGeneration(ctx, resp.ID)
		if err != nil {
			return "", err
		}
	} else if resp.Status != domain.StatusSucceeded {
		return "", fmt.Errorf("generation %s: %s", resp.Status, resp.Error)
	}

	url := strings.Join(resp.Output, "")
	if url == "" {
		return "", fmt.Errorf("generation returned no output")
	}

	return url, nil
}
