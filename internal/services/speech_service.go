// internal/services/speech_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/config"
)

// SpeechService transcribes recorded voice notes via the ElevenLabs
// speech-to-text API.
type SpeechService struct {
	cfg        config.SpeechConfig
	httpClient *http.Client
}

func NewSpeechService(cfg config.SpeechConfig) *SpeechService {
	return &SpeechService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe converts recorded audio to text. languageCode is optional and
// left empty for automatic detection.
func (s *SpeechService) Transcribe(ctx context.Context, audio []byte, fileName, languageCode string) (string, error) {
	if s.cfg.APIKey == "" {
		return "", apperrors.NewServiceError("transcribe", fmt.Errorf("speech API key is not configured"))
	}
	if len(audio) == 0 {
		return "", apperrors.NewValidationError("audio", "is required")
	}
	if fileName == "" {
		fileName = "recording.webm"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("model_id", "scribe_v1"); err != nil {
		return "", apperrors.NewServiceError("transcribe", err)
	}
	if languageCode != "" {
		if err := writer.WriteField("language_code", languageCode); err != nil {
			return "", apperrors.NewServiceError("transcribe", err)
		}
	}

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", apperrors.NewServiceError("transcribe", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", apperrors.NewServiceError("transcribe", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.NewServiceError("transcribe", err)
	}

	url := s.cfg.BaseURL + "/v1/speech-to-text"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", apperrors.NewServiceError("transcribe", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewServiceError("transcribe", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewServiceError("transcribe", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewServiceError("transcribe",
			fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncate(string(raw), 200)))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apperrors.NewServiceError("transcribe", fmt.Errorf("failed to decode response: %w", err))
	}
	return parsed.Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
