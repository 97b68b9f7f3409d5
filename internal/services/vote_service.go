// internal/services/vote_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/models"
)

// VoteService applies demand signals to a product's running totals. It runs
// against either backend handle (remote postgres or local sqlite) with the
// same code path.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// Vote upserts the (product, user) vote and adjusts the product counters.
// A repeat vote replaces the prior quantity: the counters move by the delta,
// not the full amount. The vote upsert and counter update are two separate
// writes; if the second fails after the first succeeded the operation
// reports a PartialFailure and the caller reconciles by re-reading.
func (s *VoteService) Vote(ctx context.Context, productID, userID string, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity", "must be a positive integer")
	}
	if productID == "" {
		return nil, apperrors.NewValidationError("product_id", "is required")
	}
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", "is required")
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product", productID)
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	delta := quantity

	var existing models.Vote
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&existing).Error
	switch {
	case err == nil:
		delta = quantity - existing.Quantity
		existing.Quantity = quantity
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update vote: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := models.Vote{
			ID:        models.NewVoteID(),
			ProductID: productID,
			UserID:    userID,
			Quantity:  quantity,
			CreatedAt: time.Now(),
		}
		if err := s.db.WithContext(ctx).Create(&vote).Error; err != nil {
			return nil, fmt.Errorf("failed to create vote: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to fetch vote: %w", err)
	}

	// The vote row and the counters are separate writes. A failure here
	// leaves them out of sync until the caller re-reads.
	updates := map[string]interface{}{
		"current_votes":    gorm.Expr("current_votes + ?", delta),
		"products_ordered": gorm.Expr("products_ordered + ?", delta),
		"updated_at":       time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates).Error; err != nil {
		refreshed, _ := s.reloadProduct(ctx, productID)
		if refreshed == nil {
			refreshed = &product
		}
		return refreshed, &apperrors.PartialFailure{ProductID: productID, Err: err}
	}

	return s.reloadProduct(ctx, productID)
}

// UserVotes returns every vote a user currently holds, newest first.
func (s *VoteService) UserVotes(ctx context.Context, userID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user votes: %w", err)
	}
	return votes, nil
}

func (s *VoteService) reloadProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Creator").First(&product, "id = ?", productID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}
	return &product, nil
}
