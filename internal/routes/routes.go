package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
	"github.com/lubanrahat/ShopMateEcommerce/internal/handlers"
	"github.com/lubanrahat/ShopMateEcommerce/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	orderHandler *handlers.OrderHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	v1 := api.Group("/v1")

	// Credential endpoints get a stricter limit: 10 req/min per IP
	auth := v1.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/password/forgot", authHandler.ForgotPassword)
	auth.Put("/password/reset/:token", authHandler.ResetPassword)

	// Session-scoped auth routes live outside the stricter limiter group so
	// profile reads don't burn the login budget.
	v1.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	v1.Get("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	v1.Put("/auth/password/update", middleware.JWTProtected(cfg), authHandler.UpdatePassword)
	v1.Put("/auth/profile/update", middleware.JWTProtected(cfg), authHandler.UpdateProfile)

	// Catalog listing and recommendations are public; everything else on the
	// product surface is scoped.
	products := v1.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/recommend", productHandler.Recommend)

	products.Post("/admin/create", middleware.JWTProtected(cfg), middleware.AdminRequired(db), productHandler.Create)
	products.Get("/singleProduct/:productId", middleware.JWTProtected(cfg), middleware.AdminRequired(db), productHandler.Get)
	products.Put("/admin/update/:productId", middleware.JWTProtected(cfg), middleware.AdminRequired(db), productHandler.Update)
	products.Delete("/admin/delete/:productId", middleware.JWTProtected(cfg), middleware.AdminRequired(db), productHandler.Delete)

	products.Put("/post-new/review/:productId", middleware.JWTProtected(cfg), productHandler.PostReview)
	products.Delete("/delete/review/:productId", middleware.JWTProtected(cfg), productHandler.DeleteReview)

	orders := v1.Group("/orders", middleware.JWTProtected(cfg))
	orders.Post("/create", orderHandler.Create)
	orders.Get("/my", orderHandler.MyOrders)
	orders.Post("/payment/confirm/:orderId", orderHandler.ConfirmPayment)
	orders.Put("/admin/status/:orderId", middleware.AdminRequired(db), orderHandler.UpdateStatus)
	orders.Get("/:orderId", orderHandler.Get)

	admin := v1.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db))
	admin.Get("/getallusers", adminHandler.ListUsers)
	admin.Delete("/delete/:id", adminHandler.DeleteUser)
	admin.Get("/fetch/dashboard-stats", adminHandler.DashboardStats)
}
