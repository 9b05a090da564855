package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/basel-ax/openjourney-bot/internal/domain"
)

const (
	defaultBaseURL = "https://api.replicate.com"
)

// Client represents the Replicate predictions API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
}

// NewClient creates a new Replicate API client bound to one model version
func NewClient(baseURL, token, version string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		version: version,
	}
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
}

// GenerateImage creates a prediction for the configured model version
func (c *Client) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageGenerationResponse, error) {
	payload := map[string]interface{}{
		"version": c.version,
		"input": map[string]interface{}{
			"prompt":         req.Prompt,
			"guidance_scale": req.GuidanceScale,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq)
}

// CheckGenerationStatus fetches the current state of a prediction
func (c *Client) CheckGenerationStatus(ctx context.Context, id string) (*domain.ImageGenerationResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/predictions/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(httpReq)
}

func (c *Client) do(httpReq *http.Request) (*domain.ImageGenerationResponse, error) {
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var result prediction
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	output, err := decodeOutput(result.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to decode output: %w", err)
	}

	return &domain.ImageGenerationResponse{
		ID:     result.ID,
		Status: result.Status,
		Output: output,
		Error:  decodeError(result.Error),
	}, nil
}

// decodeOutput accepts either a list of chunks or a single string
func decodeOutput(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var chunks []string
	if err := json.Unmarshal(raw, &chunks); err == nil {
		return chunks, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []string{single}, nil
}

func decodeError(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg
	}
	return string(raw)
}
