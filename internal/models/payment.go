package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentTypeOnline = "Online"

	PaymentPaid    = "Paid"
	PaymentPending = "Pending"
	PaymentFailed  = "Failed"
)

// Payment is one-to-one with an order. An order counts as paid for review
// eligibility and revenue reporting once PaymentStatus is "Paid".
type Payment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	PaymentType     string    `gorm:"size:20;not null;check:payment_type IN ('Online')" json:"payment_type"`
	PaymentStatus   string    `gorm:"size:20;not null;check:payment_status IN ('Paid','Pending','Failed')" json:"payment_status"`
	PaymentIntentID *string   `gorm:"size:255;uniqueIndex" json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
