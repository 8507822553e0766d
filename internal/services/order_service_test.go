package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShipping() dto.ShippingInfoRequest {
	return dto.ShippingInfoRequest{
		FullName: "Jane Buyer",
		State:    "CA",
		City:     "San Jose",
		Country:  "USA",
		Address:  "1 Main St",
		Pincode:  "95101",
		Phone:    "5551234567",
	}
}

func TestOrderService_Create_DecrementsStockAndSnapshots(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	owner := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleUser)
	product := createTestProduct(t, db, owner.ID, "widget", 19.99, 10)

	order, err := svc.Create(buyer.ID, &dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
		ShippingInfo:  testShipping(),
		TaxPrice:      2,
		ShippingPrice: 5,
	})
	require.NoError(t, err)

	assert.InDelta(t, 19.99*3+2+5, order.TotalPrice, 0.001)
	assert.Equal(t, models.OrderProcessing, order.OrderStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 19.99, order.Items[0].Price)
	assert.Equal(t, "widget", order.Items[0].Title)
	require.NotNil(t, order.Payment)
	assert.Equal(t, models.PaymentPending, order.Payment.PaymentStatus)
	require.NotNil(t, order.ShippingInfo)
	assert.Equal(t, "Jane Buyer", order.ShippingInfo.FullName)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 7, fresh.Stock)
}

func TestOrderService_Create_InsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	owner := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleUser)
	first := createTestProduct(t, db, owner.ID, "plenty", 10, 10)
	second := createTestProduct(t, db, owner.ID, "scarce", 10, 1)

	_, err := svc.Create(buyer.ID, &dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: first.ID, Quantity: 2},
			{ProductID: second.ID, Quantity: 5},
		},
		ShippingInfo: testShipping(),
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The first item's decrement must not survive the rollback.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", first.ID).Error)
	assert.Equal(t, 10, fresh.Stock)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestOrderService_Create_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	owner := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleUser)
	product := createTestProduct(t, db, owner.ID, "widget", 10, 10)

	_, err := svc.Create(buyer.ID, &dto.CreateOrderRequest{ShippingInfo: testShipping()})
	assert.Error(t, err)

	incomplete := testShipping()
	incomplete.Phone = ""
	_, err = svc.Create(buyer.ID, &dto.CreateOrderRequest{
		Items:        []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		ShippingInfo: incomplete,
	})
	assert.Error(t, err)

	_, err = svc.Create(buyer.ID, &dto.CreateOrderRequest{
		Items:        []dto.OrderItemRequest{{ProductID: uuid.New(), Quantity: 1}},
		ShippingInfo: testShipping(),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestOrderService_MyOrders_ScopedToBuyer(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	owner := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleUser)
	other := createTestUser(t, db, "other@example.com", models.RoleUser)
	product := createTestProduct(t, db, owner.ID, "widget", 10, 10)

	createTestOrder(t, db, buyer.ID, product.ID, 1, 10, models.PaymentPaid, time.Now())
	createTestOrder(t, db, other.ID, product.ID, 1, 10, models.PaymentPaid, time.Now())

	orders, err := svc.MyOrders(buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, buyer.ID, orders[0].BuyerID)
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Payment)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	owner := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleUser)
	product := createTestProduct(t, db, owner.ID, "widget", 10, 10)

	unpaid := createTestOrder(t, db, buyer.ID, product.ID, 1, 10, models.PaymentPending, time.Now())

	_, err := svc.UpdateStatus(unpaid.ID, "WRONG")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	// An unpaid order cannot be marked delivered.
	_, err = svc.UpdateStatus(unpaid.ID, models.OrderDelivered)
	assert.ErrorIs(t, err, ErrOrderNotPaid)

	order, err := svc.UpdateStatus(unpaid.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.OrderStatus)

	paid := createTestOrder(t, db, buyer.ID, product.ID, 1, 10, models.PaymentPaid, time.Now())
	order, err = svc.UpdateStatus(paid.ID, models.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, order.OrderStatus)

	_, err = svc.UpdateStatus(uuid.New(), models.OrderShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	owner := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleUser)
	product := createTestProduct(t, db, owner.ID, "widget", 10, 10)

	order := createTestOrder(t, db, buyer.ID, product.ID, 1, 10, models.PaymentPending, time.Now())

	confirmed, err := svc.ConfirmPayment(order.ID, "pi_test_123")
	require.NoError(t, err)
	require.NotNil(t, confirmed.PaidAt)
	require.NotNil(t, confirmed.Payment)
	assert.Equal(t, models.PaymentPaid, confirmed.Payment.PaymentStatus)
	require.NotNil(t, confirmed.Payment.PaymentIntentID)
	assert.Equal(t, "pi_test_123", *confirmed.Payment.PaymentIntentID)

	var fresh models.Payment
	require.NoError(t, db.First(&fresh, "order_id = ?", order.ID).Error)
	assert.Equal(t, models.PaymentPaid, fresh.PaymentStatus)

	_, err = svc.ConfirmPayment(uuid.New(), "pi_missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Create_StockGuardBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	owner := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleUser)
	product := createTestProduct(t, db, owner.ID, "widget", 10, 3)

	// Taking the last units succeeds.
	_, err := svc.Create(buyer.ID, &dto.CreateOrderRequest{
		Items:        []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
		ShippingInfo: testShipping(),
	})
	require.NoError(t, err)

	var updated models.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, 0, updated.Stock)

	// The guarded decrement never drives stock below zero.
	_, err = svc.Create(buyer.ID, &dto.CreateOrderRequest{
		Items:        []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		ShippingInfo: testShipping(),
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}
