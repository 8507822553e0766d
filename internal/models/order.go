package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

// OrderStatuses lists the four histogram buckets in reporting order.
var OrderStatuses = []string{OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

type Order struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID       uuid.UUID  `gorm:"type:uuid;not null" json:"buyer_id"`
	TotalPrice    float64    `gorm:"type:decimal(10,2);not null;check:total_price >= 0" json:"total_price"`
	TaxPrice      float64    `gorm:"type:decimal(10,2);not null;check:tax_price >= 0" json:"tax_price"`
	ShippingPrice float64    `gorm:"type:decimal(10,2);not null;check:shipping_price >= 0" json:"shipping_price"`
	OrderStatus   string     `gorm:"size:20;default:'PROCESSING';check:order_status IN ('PROCESSING','SHIPPED','DELIVERED','CANCELLED')" json:"order_status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	Items        []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	ShippingInfo *ShippingInfo `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shipping_info,omitempty"`
	Payment      *Payment      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

// OrderItem snapshots price, image and title at purchase time so later
// product edits do not rewrite order history.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64   `gorm:"type:decimal(10,2);not null;check:price >= 0" json:"price"`
	Image     string    `gorm:"type:text;not null" json:"image"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
