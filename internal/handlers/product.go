// internal/handlers/product.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/models"
	"github.com/natask/faibricator/internal/services"
	"github.com/natask/faibricator/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, err := h.productService.FetchProducts(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if params.Search != "" {
		products = filterProducts(products, params.Search)
	}

	total := len(products)
	start, end := utils.SliceBounds(params, total)
	result := utils.CreatePaginationResult(products[start:end], int64(total), params)
	utils.PaginatedResponse(c, result)
}

// Quantity carries no binding tag: zero and negative values go through the
// service's validation so an explicit "quantity": 0 gets the same
// VALIDATION_ERROR as any other non-positive quantity.
type voteRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// POST /products/:id/vote
func (h *ProductHandler) Vote(c *gin.Context) {
	productID := c.Param("id")

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	product, err := h.productService.Vote(c.Request.Context(), productID, req.UserID, req.Quantity)
	if err != nil {
		if apperrors.IsPartialFailure(err) {
			utils.WarningResponse(c, gin.H{"product": product}, err.Error())
			return
		}
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// GET /users/:id/votes
func (h *ProductHandler) GetUserVotes(c *gin.Context) {
	userID := c.Param("id")

	votes, err := h.productService.UserVotes(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"votes": votes})
}

// POST /products/reseed
func (h *ProductHandler) Reseed(c *gin.Context) {
	if err := h.productService.Reseed(c.Request.Context()); err != nil {
		utils.RespondError(c, err)
		return
	}

	products, err := h.productService.FetchProducts(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}

func filterProducts(products []models.Product, search string) []models.Product {
	search = strings.ToLower(search)
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), search) ||
			strings.Contains(strings.ToLower(p.Description), search) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
