package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Product carries a denormalized Ratings aggregate that is recomputed inside
// the review transaction whenever a review is written or removed.
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Price       float64        `gorm:"type:decimal(10,2);not null;check:price >= 0" json:"price"`
	Category    string         `gorm:"size:100;not null" json:"category"`
	Ratings     float64        `gorm:"type:decimal(3,2);default:0;check:ratings BETWEEN 0 AND 5" json:"ratings"`
	Images      datatypes.JSON `gorm:"default:'[]'" json:"images"`
	Stock       int            `gorm:"not null;check:stock >= 0" json:"stock"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`

	Reviews    []Review    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// ProductImage is one entry of products.images; PublicID is the opaque
// identifier the image host needs for deletion.
type ProductImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}
