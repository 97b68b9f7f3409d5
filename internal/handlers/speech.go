// internal/handlers/speech.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/natask/faibricator/internal/services"
	"github.com/natask/faibricator/internal/utils"
)

const maxAudioSize = 25 * 1024 * 1024 // 25MB

type SpeechHandler struct {
	speechService *services.SpeechService
}

func NewSpeechHandler(speechService *services.SpeechService) *SpeechHandler {
	return &SpeechHandler{speechService: speechService}
}

// POST /speech/transcribe
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.BadRequestResponse(c, "Audio file is required", err.Error())
		return
	}
	defer file.Close()

	if header.Size > maxAudioSize {
		utils.BadRequestResponse(c, "Audio file exceeds the 25MB limit", nil)
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to read audio file")
		return
	}

	text, err := h.speechService.Transcribe(
		c.Request.Context(),
		audio,
		header.Filename,
		c.PostForm("language_code"),
	)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"text": text})
}
