package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/middleware"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"github.com/lubanrahat/ShopMateEcommerce/internal/services"
)

type ProductHandler struct {
	productService   *services.ProductService
	reviewService    *services.ReviewService
	mediaService     *services.MediaService
	recommendService *services.RecommendService
}

func NewProductHandler(productService *services.ProductService, reviewService *services.ReviewService, mediaService *services.MediaService, recommendService *services.RecommendService) *ProductHandler {
	return &ProductHandler{
		productService:   productService,
		reviewService:    reviewService,
		mediaService:     mediaService,
		recommendService: recommendService,
	}
}

func parseProductID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("productId"))
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	var images []models.ProductImage
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, file := range form.File["images"] {
			uploaded, err := h.mediaService.Upload(file)
			if err != nil {
				slog.Error("product image upload failed", "error", err, "file", file.Filename)
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Success: false, Message: "Failed to upload product image",
				})
			}
			images = append(images, *uploaded)
		}
	}

	product, err := h.productService.Create(userID, &req, images)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully.",
		"product": product,
	})
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	minRating, _ := strconv.ParseFloat(c.Query("ratings"), 64)
	query := dto.ProductQuery{
		Availability: c.Query("availability"),
		PriceRange:   c.Query("price"),
		Category:     c.Query("category"),
		MinRating:    minRating,
		Search:       c.Query("search"),
		Page:         c.QueryInt("page", 1),
	}

	resp, err := h.productService.List(&query)
	if err != nil {
		slog.Error("product listing failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid product id",
		})
	}

	product, reviews, err := h.productService.Get(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Internal server error",
		})
	}

	return c.JSON(dto.SingleProductResponse{
		Success: true,
		Message: "Product fetched successfully.",
		Product: product,
		Reviews: reviews,
	})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid product id",
		})
	}

	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	product, err := h.productService.Update(productID, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Product not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "Product updated successfully",
		"updatedProduct": product,
	})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid product id",
		})
	}

	product, err := h.productService.Delete(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Product not found.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Failed to delete product.",
		})
	}

	// Row is gone; host cleanup is best-effort.
	for _, img := range services.HostedImages(product) {
		if img.PublicID == "" {
			continue
		}
		if err := h.mediaService.Delete(img.PublicID); err != nil {
			slog.Error("product image cleanup failed", "error", err, "public_id", img.PublicID)
		}
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "Product deleted successfully.",
		"deletedProduct": product,
	})
}

func (h *ProductHandler) PostReview(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	productID, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid product id",
		})
	}

	var req dto.PostReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Please provide rating and comment.",
		})
	}

	review, product, err := h.reviewService.Submit(userID, productID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPurchaseRequired):
			// Distinguished from a generic 403 so the storefront can prompt
			// the buyer to purchase first.
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false, Message: "You can only review a product you've purchased.",
			})
		case errors.Is(err, services.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Product not found!",
			})
		case errors.Is(err, services.ErrInvalidReview):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: "Please provide rating and comment.",
			})
		default:
			slog.Error("review submission failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Success: false, Message: "Internal server error",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Review posted.",
		"review":  review,
		"product": product,
	})
}

func (h *ProductHandler) DeleteReview(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	productID, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid product id",
		})
	}

	product, err := h.reviewService.Delete(userID, productID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Product not found",
			})
		case errors.Is(err, services.ErrReviewNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Review not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Success: false, Message: "Internal server error",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Review deleted.",
		"product": product,
	})
}

// Recommend filters the catalog with a natural-language query; failures
// degrade to an empty list rather than an error.
func (h *ProductHandler) Recommend(c *fiber.Ctx) error {
	prompt := c.Query("q")
	if prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Please provide a query",
		})
	}

	products, err := h.productService.RecentForRecommendation(100)
	if err != nil {
		slog.Error("failed to load products for recommendation", "error", err)
		return c.JSON(dto.RecommendResponse{Success: true, Products: []models.Product{}})
	}

	filtered := h.recommendService.Filter(prompt, products)
	return c.JSON(dto.RecommendResponse{Success: true, Products: filtered})
}
