// internal/services/ai_service_test.go
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/config"
	"github.com/natask/faibricator/internal/models"
)

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		TextModel:  "gemini-2.5-flash",
		ImageModel: "gemini-2.5-flash-image-preview",
	}
}

func geminiTextReply(text string) geminiResponse {
	return geminiResponse{
		Candidates: []struct {
			Content geminiContent `json:"content"`
		}{
			{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
		},
	}
}

func testImage() models.ImageFile {
	return models.ImageFile{Base64: "aW1hZ2U=", MimeType: "image/png", Name: "photo.png"}
}

func TestDescribeReturnsModelText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.NotNil(t, req.Contents[0].Parts[0].InlineData)

		json.NewEncoder(w).Encode(geminiTextReply("A sleek aluminum water bottle."))
	}))
	defer server.Close()

	svc := NewAIService(testAIConfig(server.URL))
	description, err := svc.Describe(context.Background(), []models.ImageFile{testImage()})
	require.NoError(t, err)
	assert.Equal(t, "A sleek aluminum water bottle.", description)
}

func TestDescribeRequiresImages(t *testing.T) {
	svc := NewAIService(testAIConfig("http://unused"))
	_, err := svc.Describe(context.Background(), nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestEditImageReturnsImageAndCommentary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := geminiResponse{}
		resp.Candidates = []struct {
			Content geminiContent `json:"content"`
		}{
			{Content: geminiContent{Parts: []geminiPart{
				{Text: "Changed the finish to matte black."},
				{InlineData: &geminiInlineData{MimeType: "image/png", Data: "ZWRpdGVk"}},
			}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewAIService(testAIConfig(server.URL))
	image, commentary, err := svc.EditImage(context.Background(), testImage(), nil, "make it matte black")
	require.NoError(t, err)
	assert.Equal(t, "ZWRpdGVk", image.Base64)
	assert.Equal(t, "Changed the finish to matte black.", commentary)
}

func TestEditImageWithoutImageInReplyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiTextReply("I cannot edit that image."))
	}))
	defer server.Close()

	svc := NewAIService(testAIConfig(server.URL))
	_, _, err := svc.EditImage(context.Background(), testImage(), nil, "do something")
	require.Error(t, err)
	assert.True(t, apperrors.IsServiceError(err))
}

func TestTechPackEmbedsSketch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := "<html><body><h1>Tech Pack</h1>\n{{SKETCH_IMAGE_HTML}}\n</body></html>"
		json.NewEncoder(w).Encode(geminiTextReply(doc))
	}))
	defer server.Close()

	svc := NewAIService(testAIConfig(server.URL))
	sketch := testImage()
	html, err := svc.TechPack(context.Background(), sketch, "aluminum bottle")
	require.NoError(t, err)

	assert.NotContains(t, html, "{{SKETCH_IMAGE_HTML}}")
	assert.Contains(t, html, sketch.DataURL())
}

func TestTechPackStripsMarkdownFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := "```html\n<html><body>doc</body></html>\n```"
		json.NewEncoder(w).Encode(geminiTextReply(doc))
	}))
	defer server.Close()

	svc := NewAIService(testAIConfig(server.URL))
	html, err := svc.TechPack(context.Background(), testImage(), "bottle")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<html>"))
}

func TestFindSuppliersSendsSearchTool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Tools, 1)
		assert.NotNil(t, req.Tools[0].GoogleSearch)

		json.NewEncoder(w).Encode(geminiTextReply("<table><tr><td>Acme Mfg</td></tr></table>"))
	}))
	defer server.Close()

	svc := NewAIService(testAIConfig(server.URL))
	table, err := svc.FindSuppliers(context.Background(), "aluminum bottle")
	require.NoError(t, err)
	assert.Contains(t, table, "Acme Mfg")
}

func TestAPIErrorSurfacesAsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 429, "message": "Resource has been exhausted"},
		})
	}))
	defer server.Close()

	svc := NewAIService(testAIConfig(server.URL))
	_, err := svc.Describe(context.Background(), []models.ImageFile{testImage()})
	require.Error(t, err)
	assert.True(t, apperrors.IsServiceError(err))
	assert.Contains(t, err.Error(), "exhausted")
}

func TestMissingAPIKey(t *testing.T) {
	svc := NewAIService(config.AIConfig{BaseURL: "http://unused", TextModel: "m"})
	_, err := svc.Describe(context.Background(), []models.ImageFile{testImage()})
	assert.True(t, apperrors.IsServiceError(err))
}
