// internal/models/user.go
package models

import "time"

// User is immutable once created in dashboard scope.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Email     string    `json:"email" gorm:"size:255"`
	Name      string    `json:"name" gorm:"size:255"`
	AvatarURL string    `json:"avatar_url,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
