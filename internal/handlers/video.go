// internal/handlers/video.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/natask/faibricator/internal/services"
	"github.com/natask/faibricator/internal/utils"
)

type VideoHandler struct {
	videoService *services.VideoService
}

func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

type videoGenerateRequest struct {
	Prompt      string `json:"prompt" validate:"required"`
	AspectRatio string `json:"aspect_ratio"`
	Duration    string `json:"duration"`
}

// POST /video/generate
func (h *VideoHandler) Generate(c *gin.Context) {
	var req videoGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.videoService.Generate(c.Request.Context(), req.Prompt, req.AspectRatio, req.Duration)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"video": result})
}
