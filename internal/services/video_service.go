// internal/services/video_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/config"
)

// VideoService generates short promotional clips for products through the
// FAL-hosted Veo model.
type VideoService struct {
	cfg        config.VideoConfig
	httpClient *http.Client
}

func NewVideoService(cfg config.VideoConfig) *VideoService {
	return &VideoService{
		cfg: cfg,
		// Video generation is slow; this is a synchronous endpoint.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

type VideoResult struct {
	URL       string `json:"url"`
	RequestID string `json:"request_id,omitempty"`
}

type videoRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

type videoResponse struct {
	Video struct {
		URL string `json:"url"`
	} `json:"video"`
	RequestID string `json:"request_id"`
	Detail    string `json:"detail"`
}

// Generate produces a video clip from a text prompt.
func (s *VideoService) Generate(ctx context.Context, prompt, aspectRatio, duration string) (*VideoResult, error) {
	if s.cfg.APIKey == "" {
		return nil, apperrors.NewServiceError("video", fmt.Errorf("video API key is not configured"))
	}
	if prompt == "" {
		return nil, apperrors.NewValidationError("prompt", "is required")
	}
	if aspectRatio == "" {
		aspectRatio = "16:9"
	}
	if duration == "" {
		duration = "8s"
	}

	payload, err := json.Marshal(videoRequest{
		Prompt:      prompt,
		AspectRatio: aspectRatio,
		Duration:    duration,
	})
	if err != nil {
		return nil, apperrors.NewServiceError("video", err)
	}

	url := s.cfg.BaseURL + "/fal-ai/veo3"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewServiceError("video", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewServiceError("video", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewServiceError("video", err)
	}

	var parsed videoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.NewServiceError("video",
			fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err))
	}
	if resp.StatusCode != http.StatusOK {
		detail := parsed.Detail
		if detail == "" {
			detail = truncate(string(raw), 200)
		}
		return nil, apperrors.NewServiceError("video",
			fmt.Errorf("provider returned status %d: %s", resp.StatusCode, detail))
	}
	if parsed.Video.URL == "" {
		return nil, apperrors.NewServiceError("video", fmt.Errorf("provider returned no video"))
	}

	return &VideoResult{URL: parsed.Video.URL, RequestID: parsed.RequestID}, nil
}
