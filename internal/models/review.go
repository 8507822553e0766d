package models

import (
	"time"

	"github.com/google/uuid"
)

// Review holds at most one row per (product, user); a second submission
// overwrites the first.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	Rating    float64   `gorm:"type:numeric(2,1);not null;check:rating BETWEEN 0 AND 5" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
