// internal/services/ai_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/config"
	"github.com/natask/faibricator/internal/models"
)

const sketchImageToken = "{{SKETCH_IMAGE_HTML}}"

// Gemini generateContent wire types. Only the fields this service uses.
type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
	Tools            []geminiTool            `json:"tools,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AIService wraps the Gemini generateContent API for the product studio:
// describing uploads, conversational image editing, final sketch rendering,
// tech pack generation and supplier research.
type AIService struct {
	cfg        config.AIConfig
	httpClient *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Describe summarizes one or more product images in a single paragraph.
func (s *AIService) Describe(ctx context.Context, images []models.ImageFile) (string, error) {
	if len(images) == 0 {
		return "", apperrors.NewValidationError("images", "at least one image is required")
	}

	parts := imageParts(images)
	parts = append(parts, geminiPart{
		Text: "Describe the product shown in these images in a concise paragraph, focusing on its key visual features and potential materials.",
	})

	resp, err := s.generate(ctx, s.cfg.TextModel, geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	})
	if err != nil {
		return "", apperrors.NewServiceError("describe", err)
	}

	text := firstText(resp)
	if text == "" {
		return "", apperrors.NewServiceError("describe", fmt.Errorf("model returned no text"))
	}
	return text, nil
}

// EditImage applies a natural-language edit to the main image, optionally
// guided by reference images. Returns the edited image and any commentary
// the model produced alongside it.
func (s *AIService) EditImage(ctx context.Context, main models.ImageFile, refs []models.ImageFile, prompt string) (models.ImageFile, string, error) {
	if prompt == "" {
		return models.ImageFile{}, "", apperrors.NewValidationError("prompt", "is required")
	}

	parts := imageParts(append([]models.ImageFile{main}, refs...))
	parts = append(parts, geminiPart{Text: prompt})

	resp, err := s.generate(ctx, s.cfg.ImageModel, geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	})
	if err != nil {
		return models.ImageFile{}, "", apperrors.NewServiceError("edit", err)
	}

	image, commentary := firstImageAndText(resp)
	if image == nil {
		return models.ImageFile{}, "", apperrors.NewServiceError("edit", fmt.Errorf("model returned no image"))
	}
	image.Name = "edited.png"
	return *image, commentary, nil
}

// FinalSketch renders a clean monochrome line-art sketch of the product,
// the drawing a factory would work from.
func (s *AIService) FinalSketch(ctx context.Context, image models.ImageFile, description string) (models.ImageFile, error) {
	prompt := "Create a clean, professional, monochrome line-art technical sketch of this product, " +
		"suitable for a manufacturing specification. White background, no shading, no text labels. " +
		"Product description: " + description

	parts := imageParts([]models.ImageFile{image})
	parts = append(parts, geminiPart{Text: prompt})

	resp, err := s.generate(ctx, s.cfg.ImageModel, geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	})
	if err != nil {
		return models.ImageFile{}, apperrors.NewServiceError("sketch", err)
	}

	sketch, _ := firstImageAndText(resp)
	if sketch == nil {
		return models.ImageFile{}, apperrors.NewServiceError("sketch", fmt.Errorf("model returned no image"))
	}
	sketch.Name = "final_sketch.png"
	return *sketch, nil
}

// TechPack generates a manufacturing tech pack as a standalone HTML
// document with the final sketch embedded where the model placed the
// placeholder token.
func (s *AIService) TechPack(ctx context.Context, sketch models.ImageFile, description string) (string, error) {
	prompt := "Generate a complete manufacturing tech pack as a standalone HTML document for the following product. " +
		"Include sections for overview, materials, dimensions, construction details, quality standards and packaging. " +
		"Where the technical sketch should appear, output exactly the token " + sketchImageToken + " on its own line. " +
		"Do not wrap the document in markdown fences. Product description: " + description

	parts := imageParts([]models.ImageFile{sketch})
	parts = append(parts, geminiPart{Text: prompt})

	resp, err := s.generate(ctx, s.cfg.TextModel, geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	})
	if err != nil {
		return "", apperrors.NewServiceError("tech-pack", err)
	}

	html := stripCodeFences(firstText(resp))
	if html == "" {
		return "", apperrors.NewServiceError("tech-pack", fmt.Errorf("model returned no document"))
	}

	imgTag := fmt.Sprintf(`<img src=%q alt="Technical sketch" style="max-width:100%%;height:auto;" />`, sketch.DataURL())
	return strings.ReplaceAll(html, sketchImageToken, imgTag), nil
}

// FindSuppliers researches manufacturers for the product using grounded
// web search and returns the findings as an HTML table.
func (s *AIService) FindSuppliers(ctx context.Context, summary string) (string, error) {
	if summary == "" {
		return "", apperrors.NewValidationError("summary", "is required")
	}

	prompt := "Find real manufacturers and suppliers capable of producing the following product. " +
		"Present the results as an HTML table with columns for company name, location, specialty and why they fit. " +
		"Do not wrap the output in markdown fences. Product: " + summary

	resp, err := s.generate(ctx, s.cfg.TextModel, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		Tools:    []geminiTool{{GoogleSearch: &struct{}{}}},
	})
	if err != nil {
		return "", apperrors.NewServiceError("suppliers", err)
	}

	table := stripCodeFences(firstText(resp))
	if table == "" {
		return "", apperrors.NewServiceError("suppliers", fmt.Errorf("model returned no results"))
	}
	return table, nil
}

func (s *AIService) generate(ctx context.Context, model string, reqBody geminiRequest) (*geminiResponse, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is not configured")
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.cfg.BaseURL, model, s.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"model":    model,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Gemini request completed")

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("api error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return &parsed, nil
}

func imageParts(images []models.ImageFile) []geminiPart {
	parts := make([]geminiPart, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{MimeType: img.MimeType, Data: img.Base64},
		})
	}
	return parts
}

func firstText(resp *geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return strings.TrimSpace(part.Text)
			}
		}
	}
	return ""
}

func firstImageAndText(resp *geminiResponse) (*models.ImageFile, string) {
	var image *models.ImageFile
	var text string
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && image == nil {
				image = &models.ImageFile{
					Base64:   part.InlineData.Data,
					MimeType: part.InlineData.MimeType,
				}
			}
			if part.Text != "" && text == "" {
				text = strings.TrimSpace(part.Text)
			}
		}
	}
	return image, text
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
