package dto

import (
	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"gorm.io/datatypes"
)

type CreateProductRequest struct {
	Name        string  `json:"name" form:"name"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price"`
	Category    string  `json:"category" form:"category"`
	Stock       int     `json:"stock" form:"stock"`
}

// ProductQuery carries the optional catalog filters. Zero values mean the
// filter is absent.
type ProductQuery struct {
	Availability string
	PriceRange   string
	Category     string
	MinRating    float64
	Search       string
	Page         int
}

// ProductWithCount is a product row annotated with its review count.
type ProductWithCount struct {
	models.Product
	ReviewCount int64 `gorm:"column:review_count" json:"review_count"`
}

type ProductListResponse struct {
	Success          bool               `json:"success"`
	TotalProducts    int64              `json:"totalProducts"`
	Products         []ProductWithCount `json:"products"`
	NewProducts      []ProductWithCount `json:"newProducts"`
	TopRatedProducts []ProductWithCount `json:"topRatedProducts"`
}

// ReviewWithReviewer is a review joined with the reviewing user.
type ReviewWithReviewer struct {
	ID       uuid.UUID      `gorm:"column:id" json:"review_id"`
	Rating   float64        `gorm:"column:rating" json:"rating"`
	Comment  string         `gorm:"column:comment" json:"comment"`
	UserID   uuid.UUID      `gorm:"column:user_id" json:"user_id"`
	UserName string         `gorm:"column:user_name" json:"user_name"`
	Avatar   datatypes.JSON `gorm:"column:avatar" json:"avatar,omitempty"`
}

type SingleProductResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Product *models.Product      `json:"product"`
	Reviews []ReviewWithReviewer `json:"reviews"`
}

type PostReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type RecommendResponse struct {
	Success  bool             `json:"success"`
	Products []models.Product `json:"products"`
}
