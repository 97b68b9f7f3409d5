// internal/models/vote.go
package models

import "time"

// Vote is a single user's declared order-quantity commitment toward a
// product. At most one row exists per (product_id, user_id); a repeat vote
// replaces the quantity instead of inserting a duplicate.
type Vote struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	ProductID string    `json:"product_id" gorm:"size:64;not null;uniqueIndex:idx_votes_product_user"`
	UserID    string    `json:"user_id" gorm:"size:64;not null;uniqueIndex:idx_votes_product_user"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
