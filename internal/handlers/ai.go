// internal/handlers/ai.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/natask/faibricator/internal/models"
	"github.com/natask/faibricator/internal/services"
	"github.com/natask/faibricator/internal/utils"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

type describeRequest struct {
	Images []models.ImageFile `json:"images" validate:"required,min=1"`
}

// POST /ai/describe
func (h *AIHandler) Describe(c *gin.Context) {
	var req describeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	description, err := h.aiService.Describe(c.Request.Context(), req.Images)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"description": description})
}

type editRequest struct {
	Image      models.ImageFile   `json:"image" validate:"required"`
	References []models.ImageFile `json:"references"`
	Prompt     string             `json:"prompt" validate:"required"`
}

// POST /ai/edit
func (h *AIHandler) EditImage(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	image, commentary, err := h.aiService.EditImage(c.Request.Context(), req.Image, req.References, req.Prompt)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"image":      image,
		"commentary": commentary,
	})
}

type sketchRequest struct {
	Image       models.ImageFile `json:"image" validate:"required"`
	Description string           `json:"description" validate:"required"`
}

// POST /ai/sketch
func (h *AIHandler) FinalSketch(c *gin.Context) {
	var req sketchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sketch, err := h.aiService.FinalSketch(c.Request.Context(), req.Image, req.Description)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"sketch": sketch})
}

type techPackRequest struct {
	Sketch      models.ImageFile `json:"sketch" validate:"required"`
	Description string           `json:"description" validate:"required"`
}

// POST /ai/tech-pack
func (h *AIHandler) TechPack(c *gin.Context) {
	var req techPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	html, err := h.aiService.TechPack(c.Request.Context(), req.Sketch, req.Description)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"tech_pack": html})
}

type suppliersRequest struct {
	Summary string `json:"summary" validate:"required"`
}

// POST /ai/suppliers
func (h *AIHandler) FindSuppliers(c *gin.Context) {
	var req suppliersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	results, err := h.aiService.FindSuppliers(c.Request.Context(), req.Summary)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"suppliers": results})
}
