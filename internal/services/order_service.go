package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInsufficientStock  = errors.New("insufficient stock for one or more items")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrOrderNotPaid       = errors.New("order has not been paid")
)

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Create books the order, its item snapshots, shipping info and a pending
// Online payment in a single transaction, decrementing stock as it goes.
func (s *OrderService) Create(buyerID uuid.UUID, req *dto.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}
	if req.TaxPrice < 0 || req.ShippingPrice < 0 {
		return nil, errors.New("tax and shipping prices must not be negative")
	}
	if err := validateShipping(&req.ShippingInfo); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderID := uuid.New()
		itemsTotal := 0.0
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			if item.Quantity <= 0 {
				return errors.New("item quantity must be greater than zero")
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			// Guarded single-statement decrement; two concurrent orders
			// cannot both take the last units.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", product.ID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}

			image := ""
			if hosted := HostedImages(&product); len(hosted) > 0 {
				image = hosted[0].URL
			}

			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
				Image:     image,
				Title:     product.Name,
			})
			itemsTotal += product.Price * float64(item.Quantity)
		}

		order = models.Order{
			ID:            orderID,
			BuyerID:       buyerID,
			TotalPrice:    itemsTotal + req.TaxPrice + req.ShippingPrice,
			TaxPrice:      req.TaxPrice,
			ShippingPrice: req.ShippingPrice,
			OrderStatus:   models.OrderProcessing,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		shipping := models.ShippingInfo{
			ID:       uuid.New(),
			OrderID:  orderID,
			FullName: req.ShippingInfo.FullName,
			State:    req.ShippingInfo.State,
			City:     req.ShippingInfo.City,
			Country:  req.ShippingInfo.Country,
			Address:  req.ShippingInfo.Address,
			Pincode:  req.ShippingInfo.Pincode,
			Phone:    req.ShippingInfo.Phone,
		}
		if err := tx.Create(&shipping).Error; err != nil {
			return fmt.Errorf("failed to create shipping info: %w", err)
		}

		payment := models.Payment{
			ID:            uuid.New(),
			OrderID:       orderID,
			PaymentType:   models.PaymentTypeOnline,
			PaymentStatus: models.PaymentPending,
		}
		if req.PaymentIntentID != "" {
			payment.PaymentIntentID = &req.PaymentIntentID
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		order.Items = items
		order.ShippingInfo = &shipping
		order.Payment = &payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *OrderService) MyOrders(buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Preload("ShippingInfo").Preload("Payment").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (s *OrderService) Get(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("ShippingInfo").Preload("Payment").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves the order within the status enum. DELIVERED requires a
// settled payment.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, status string) (*models.Order, error) {
	valid := false
	for _, st := range models.OrderStatuses {
		if st == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}

	if status == models.OrderDelivered && order.PaidAt == nil {
		return nil, ErrOrderNotPaid
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Update("order_status", status).Error; err != nil {
		return nil, err
	}
	order.OrderStatus = status
	return order, nil
}

// ConfirmPayment records a settled payment: status Paid, intent reference,
// and the order's paid_at timestamp, atomically.
func (s *OrderService) ConfirmPayment(orderID uuid.UUID, paymentIntentID string) (*models.Order, error) {
	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"payment_status": models.PaymentPaid}
		if paymentIntentID != "" {
			updates["payment_intent_id"] = paymentIntentID
		}
		result := tx.Model(&models.Payment{}).Where("order_id = ?", orderID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return tx.Model(&models.Order{}).Where("id = ?", orderID).Update("paid_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	order.PaidAt = &now
	if order.Payment != nil {
		order.Payment.PaymentStatus = models.PaymentPaid
		if paymentIntentID != "" {
			order.Payment.PaymentIntentID = &paymentIntentID
		}
	}
	return order, nil
}

func validateShipping(info *dto.ShippingInfoRequest) error {
	fields := map[string]string{
		"full_name": info.FullName,
		"state":     info.State,
		"city":      info.City,
		"country":   info.Country,
		"address":   info.Address,
		"pincode":   info.Pincode,
		"phone":     info.Phone,
	}
	for name, val := range fields {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("shipping %s is required", name)
		}
	}
	return nil
}
