// internal/models/product.go
package models

import "time"

// Product is a proposed manufacturable item on the dashboard. The vote
// counters are adjusted only through the vote aggregator, never written
// directly by a handler.
type Product struct {
	ID               string    `json:"id" gorm:"primaryKey;size:64"`
	Title            string    `json:"title" gorm:"size:255;not null"`
	Description      string    `json:"description" gorm:"type:text"`
	ProductImage     string    `json:"product_image" gorm:"type:text"` // data URL or remote URL
	CreatorID        string    `json:"creator_id" gorm:"size:64;index"`
	MinOrderQuantity int       `json:"min_order_quantity" gorm:"not null"`
	CurrentVotes     int       `json:"current_votes" gorm:"default:0"`
	ProductsOrdered  int       `json:"products_ordered" gorm:"default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relationships
	Creator *User `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
}
