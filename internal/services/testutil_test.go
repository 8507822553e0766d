package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// In-memory sqlite is per-connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Review{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingInfo{},
		&models.Payment{},
		&models.SystemLog{},
	))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-jwt-secret",
		JWTExpiry:     time.Hour,
		CookieExpiry:  time.Hour,
		ResetTokenTTL: 15 * time.Minute,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestProduct(t *testing.T, db *gorm.DB, owner uuid.UUID, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    "Electronics",
		Images:      datatypes.JSON(`[]`),
		Stock:       stock,
		CreatedBy:   owner,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

// createTestOrder books an order line for the product with the given payment
// status, paid orders get a paid_at timestamp.
func createTestOrder(t *testing.T, db *gorm.DB, buyer, product uuid.UUID, quantity int, total float64, paymentStatus string, paidAt time.Time) *models.Order {
	t.Helper()

	order := models.Order{
		ID:          uuid.New(),
		BuyerID:     buyer,
		TotalPrice:  total,
		OrderStatus: models.OrderProcessing,
	}
	if paymentStatus == models.PaymentPaid {
		order.PaidAt = &paidAt
	}
	require.NoError(t, db.Create(&order).Error)

	item := models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: product,
		Quantity:  quantity,
		Price:     total,
		Image:     "https://img.example/p.jpg",
		Title:     "snapshot",
	}
	require.NoError(t, db.Create(&item).Error)

	payment := models.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		PaymentType:   models.PaymentTypeOnline,
		PaymentStatus: paymentStatus,
	}
	require.NoError(t, db.Create(&payment).Error)

	return &order
}
