// internal/handlers/studio.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/natask/faibricator/internal/models"
	"github.com/natask/faibricator/internal/services"
	"github.com/natask/faibricator/internal/utils"
)

type StudioHandler struct {
	studioService *services.StudioService
}

func NewStudioHandler(studioService *services.StudioService) *StudioHandler {
	return &StudioHandler{studioService: studioService}
}

// GET /projects
func (h *StudioHandler) GetProjects(c *gin.Context) {
	projects, err := h.studioService.Projects()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"projects": projects})
}

// PUT /projects/:id
func (h *StudioHandler) SaveProject(c *gin.Context) {
	var project models.StudioProject
	if err := c.ShouldBindJSON(&project); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	project.ID = c.Param("id")

	if err := h.studioService.SaveProject(&project); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"id": project.ID})
}

// DELETE /projects/:id
func (h *StudioHandler) DeleteProject(c *gin.Context) {
	if err := h.studioService.DeleteProject(c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": c.Param("id")})
}

type publishRequest struct {
	CreatorID string `json:"creator_id"`
}

// POST /projects/:id/publish
func (h *StudioHandler) PublishProject(c *gin.Context) {
	var req publishRequest
	// Body is optional; an empty creator falls back to the studio account.
	_ = c.ShouldBindJSON(&req)

	product, err := h.studioService.PublishProject(c.Request.Context(), c.Param("id"), req.CreatorID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"product": product})
}
