package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
	"github.com/lubanrahat/ShopMateEcommerce/internal/handlers"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"github.com/lubanrahat/ShopMateEcommerce/internal/routes"
	"github.com/lubanrahat/ShopMateEcommerce/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeMailer struct {
	to      string
	subject string
	body    string
	fail    bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail {
		return assert.AnError
	}
	m.to, m.subject, m.body = to, subject, body
	return nil
}

type testApp struct {
	app    *fiber.App
	db     *gorm.DB
	mailer *fakeMailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Review{},
		&models.Order{}, &models.OrderItem{}, &models.ShippingInfo{}, &models.Payment{},
	))

	cfg := &config.Config{
		JWTSecret:     "test-jwt-secret",
		JWTExpiry:     time.Hour,
		CookieExpiry:  time.Hour,
		ResetTokenTTL: 15 * time.Minute,
		FrontendURL:   "http://localhost:5173",
		DashboardURL:  "http://localhost:5174",
	}

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	reviewService := services.NewReviewService(db)
	orderService := services.NewOrderService(db)
	adminService := services.NewAdminService(db)
	dashboardService := services.NewDashboardService(db)
	mediaService := services.NewMediaService(cfg)
	recommendService := services.NewRecommendService(cfg)
	mailer := &fakeMailer{}

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(authService, mailer, mediaService, cfg),
		handlers.NewProductHandler(productService, reviewService, mediaService, recommendService),
		handlers.NewOrderHandler(orderService),
		handlers.NewAdminHandler(adminService, dashboardService, mediaService),
		handlers.NewHealthHandler(),
	)

	return &testApp{app: app, db: db, mailer: mailer}
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAuthRoutes_RegisterLoginMe(t *testing.T) {
	ta := newTestApp(t)

	resp, err := ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)

	// Me without the cookie is rejected.
	resp, err = ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(cookie)
	resp, err = ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", user["email"])

	resp, err = ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-password",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRoutes_DuplicateRegistration(t *testing.T) {
	ta := newTestApp(t)

	payload := map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "supersecret",
	}
	resp, err := ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", payload))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAuthRoutes_ForgotPasswordSendsMail(t *testing.T) {
	ta := newTestApp(t)

	resp, err := ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/password/forgot", map[string]string{
		"email": "jane@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jane@example.com", ta.mailer.to)
	assert.Contains(t, ta.mailer.body, "http://localhost:5173/password/reset/")

	resp, err = ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/password/forgot", map[string]string{
		"email": "nobody@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthRoutes_MailFailureClearsToken(t *testing.T) {
	ta := newTestApp(t)
	ta.mailer.fail = true

	resp, err := ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/password/forgot", map[string]string{
		"email": "jane@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var user models.User
	require.NoError(t, ta.db.First(&user, "email = ?", "jane@example.com").Error)
	assert.Nil(t, user.ResetPasswordToken)
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	ta := newTestApp(t)

	resp, err := ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Plain Shopper",
		"email":    "shopper@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/getallusers", nil)
	req.AddCookie(cookie)
	resp, err = ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Promote and retry with a fresh login.
	require.NoError(t, ta.db.Model(&models.User{}).
		Where("email = ?", "shopper@example.com").
		Update("role", models.RoleAdmin).Error)

	resp, err = ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "shopper@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie = sessionCookie(t, resp)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/getallusers", nil)
	req.AddCookie(cookie)
	resp, err = ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthRoute(t *testing.T) {
	ta := newTestApp(t)

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	// The shared database handle is not connected in tests.
	assert.Contains(t, []int{http.StatusOK, http.StatusServiceUnavailable}, resp.StatusCode)
}

func TestProductRoutes_ReviewValidationStatus(t *testing.T) {
	ta := newTestApp(t)

	resp, err := ta.app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Paid Buyer",
		"email":    "buyer@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	var buyer models.User
	require.NoError(t, ta.db.First(&buyer, "email = ?", "buyer@example.com").Error)

	product := models.Product{
		ID:          uuid.New(),
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		Price:       49.99,
		Category:    "Electronics",
		Images:      datatypes.JSON(`[]`),
		Stock:       5,
		CreatedBy:   buyer.ID,
	}
	require.NoError(t, ta.db.Create(&product).Error)

	paidAt := time.Now()
	order := models.Order{
		ID:          uuid.New(),
		BuyerID:     buyer.ID,
		TotalPrice:  49.99,
		OrderStatus: models.OrderProcessing,
		PaidAt:      &paidAt,
	}
	require.NoError(t, ta.db.Create(&order).Error)
	require.NoError(t, ta.db.Create(&models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  1,
		Price:     49.99,
		Image:     "https://img.example/k.jpg",
		Title:     "Keyboard",
	}).Error)
	require.NoError(t, ta.db.Create(&models.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		PaymentType:   models.PaymentTypeOnline,
		PaymentStatus: models.PaymentPaid,
	}).Error)

	target := "/api/v1/products/post-new/review/" + product.ID.String()

	// Malformed review input from an eligible buyer is a 400, not a 500.
	req := jsonRequest(http.MethodPut, target, map[string]interface{}{
		"rating": 6, "comment": "too high",
	})
	req.AddCookie(cookie)
	resp, err = ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = jsonRequest(http.MethodPut, target, map[string]interface{}{
		"rating": 4, "comment": "   ",
	})
	req.AddCookie(cookie)
	resp, err = ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = jsonRequest(http.MethodPut, target, map[string]interface{}{
		"rating": 4, "comment": "Clicky and solid",
	})
	req.AddCookie(cookie)
	resp, err = ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
