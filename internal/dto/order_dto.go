package dto

import "github.com/google/uuid"

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type ShippingInfoRequest struct {
	FullName string `json:"full_name"`
	State    string `json:"state"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
	Phone    string `json:"phone"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest  `json:"items"`
	ShippingInfo    ShippingInfoRequest `json:"shipping_info"`
	TaxPrice        float64             `json:"tax_price"`
	ShippingPrice   float64             `json:"shipping_price"`
	PaymentIntentID string              `json:"payment_intent_id"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}
