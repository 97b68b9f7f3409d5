// internal/services/speech_service_test.go
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/config"
)

func TestTranscribeSendsMultipartForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech-to-text", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "scribe_v1", r.FormValue("model_id"))
		assert.Equal(t, "en", r.FormValue("language_code"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "note.webm", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": "add a handle to the left side"})
	}))
	defer server.Close()

	svc := NewSpeechService(config.SpeechConfig{APIKey: "test-key", BaseURL: server.URL})
	text, err := svc.Transcribe(context.Background(), []byte("audio-bytes"), "note.webm", "en")
	require.NoError(t, err)
	assert.Equal(t, "add a handle to the left side", text)
}

func TestTranscribeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer server.Close()

	svc := NewSpeechService(config.SpeechConfig{APIKey: "bad-key", BaseURL: server.URL})
	_, err := svc.Transcribe(context.Background(), []byte("audio"), "note.webm", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsServiceError(err))
}

func TestTranscribeRequiresAudio(t *testing.T) {
	svc := NewSpeechService(config.SpeechConfig{APIKey: "test-key", BaseURL: "http://unused"})
	_, err := svc.Transcribe(context.Background(), nil, "", "")
	assert.True(t, apperrors.IsValidation(err))
}
