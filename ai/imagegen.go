package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// GenerateRequest is the payload for the image-generation service.
// InitImageURL plus Denoise switches the call to img2img; without them
// the service runs text2img.
type GenerateRequest struct {
	Prompt         string   `json:"prompt"`
	NegativePrompt string   `json:"negative_prompt,omitempty"`
	Steps          int      `json:"steps"`
	Cfg            float64  `json:"cfg"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Seed           *int64   `json:"seed,omitempty"`
	Model          string   `json:"model,omitempty"`
	InitImageURL   string   `json:"init_image_url,omitempty"`
	Denoise        *float64 `json:"denoise,omitempty"`
}

// GenerateResult is what the service reports back. Fields the service
// does not echo stay zero; the orchestrator overlays them with profile
// defaults.
type GenerateResult struct {
	ImageURL   string  `json:"image_url"`
	Seed       *int64  `json:"seed,omitempty"`
	Model      string  `json:"model,omitempty"`
	Steps      int     `json:"steps,omitempty"`
	Cfg        float64 `json:"cfg,omitempty"`
	Sampler    string  `json:"sampler,omitempty"`
	DurationMs int64   `json:"duration_ms,omitempty"`
}

// ImageClient calls the image-generation service. Generation takes
// minutes, so the HTTP timeout is deliberately long.
type ImageClient struct {
	baseURL string
	http    *http.Client
}

// NewImageClient builds the client from IMAGE_SERVICE_URL and
// IMAGE_TIMEOUT_MIN (default 5 minutes).
func NewImageClient() *ImageClient {
	base := os.Getenv("IMAGE_SERVICE_URL")
	if base == "" {
		base = "http://localhost:8000"
	}
	timeoutMin := 5
	if v := os.Getenv("IMAGE_TIMEOUT_MIN"); v != "" {
		fmt.Sscanf(v, "%d", &timeoutMin)
	}
	return &ImageClient{
		baseURL: base,
		http:    &http.Client{Timeout: time.Duration(timeoutMin) * time.Minute},
	}
}

// Generate runs one generation call and decodes the result.
func (c *ImageClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image service returned %d", resp.StatusCode)
	}

	var result GenerateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	if result.ImageURL == "" {
		return nil, fmt.Errorf("image service returned no image_url")
	}
	return &result, nil
}
