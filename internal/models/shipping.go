package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingInfo is one-to-one with an order; all address fields are required.
type ShippingInfo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	FullName  string    `gorm:"size:100;not null" json:"full_name"`
	State     string    `gorm:"size:100;not null" json:"state"`
	City      string    `gorm:"size:100;not null" json:"city"`
	Country   string    `gorm:"size:100;not null" json:"country"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	Pincode   string    `gorm:"size:10;not null" json:"pincode"`
	Phone     string    `gorm:"size:20;not null" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
