package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

const productPageSize = 10

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Create(createdBy uuid.UUID, req *dto.CreateProductRequest, images []models.ProductImage) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" ||
		req.Price <= 0 || strings.TrimSpace(req.Category) == "" || req.Stock < 0 {
		return nil, errors.New("please provide all required fields")
	}

	if images == nil {
		images = []models.ProductImage{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}

	product := models.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Images:      datatypes.JSON(raw),
		Stock:       req.Stock,
		CreatedBy:   createdBy,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// applyFilters composes the optional catalog predicates with AND. Each filter
// that fails to parse is silently dropped rather than rejected.
func (s *ProductService) applyFilters(db *gorm.DB, q *dto.ProductQuery) *gorm.DB {
	switch q.Availability {
	case "in-stock":
		db = db.Where("products.stock > 5")
	case "limited":
		db = db.Where("products.stock > 0 AND products.stock <= 5")
	case "out-of-stock":
		db = db.Where("products.stock = 0")
	}

	if q.PriceRange != "" {
		if min, max, ok := parsePriceRange(q.PriceRange); ok {
			db = db.Where("products.price BETWEEN ? AND ?", min, max)
		}
	}

	if q.Category != "" {
		db = db.Where("LOWER(products.category) LIKE ?", "%"+strings.ToLower(q.Category)+"%")
	}

	if q.MinRating > 0 {
		db = db.Where("products.ratings >= ?", q.MinRating)
	}

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		db = db.Where("(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?)", pattern, pattern)
	}

	return db
}

// parsePriceRange splits "min-max"; both bounds must parse for the filter to
// apply.
func parsePriceRange(s string) (float64, float64, bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return min, max, true
}

func (s *ProductService) withReviewCount(db *gorm.DB) *gorm.DB {
	return db.Table("products").
		Select("products.*, COUNT(reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
		Group("products.id")
}

// List runs the filtered, paginated catalog query plus the two fixed
// auxiliary lists (newest products of the last 30 days, top rated >= 4.5).
func (s *ProductService) List(q *dto.ProductQuery) (*dto.ProductListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * productPageSize

	var total int64
	if err := s.applyFilters(s.db.Model(&models.Product{}), q).Count(&total).Error; err != nil {
		return nil, err
	}

	var products []dto.ProductWithCount
	err := s.applyFilters(s.withReviewCount(s.db), q).
		Order("products.created_at DESC").
		Limit(productPageSize).Offset(offset).
		Scan(&products).Error
	if err != nil {
		return nil, err
	}

	var newProducts []dto.ProductWithCount
	err = s.withReviewCount(s.db).
		Where("products.created_at >= ?", time.Now().AddDate(0, 0, -30)).
		Order("products.created_at DESC").
		Limit(8).
		Scan(&newProducts).Error
	if err != nil {
		return nil, err
	}

	var topRated []dto.ProductWithCount
	err = s.withReviewCount(s.db).
		Where("products.ratings >= ?", 4.5).
		Order("products.created_at DESC").
		Limit(8).
		Scan(&topRated).Error
	if err != nil {
		return nil, err
	}

	return &dto.ProductListResponse{
		Success:          true,
		TotalProducts:    total,
		Products:         products,
		NewProducts:      newProducts,
		TopRatedProducts: topRated,
	}, nil
}

// Get returns a product with its reviews and reviewer info.
func (s *ProductService) Get(id uuid.UUID) (*models.Product, []dto.ReviewWithReviewer, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProductNotFound
		}
		return nil, nil, err
	}

	var reviews []dto.ReviewWithReviewer
	err := s.db.Table("reviews").
		Select("reviews.id, reviews.rating, reviews.comment, users.id AS user_id, users.name AS user_name, users.avatar").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", id).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, nil, err
	}

	return &product, reviews, nil
}

func (s *ProductService) Update(id uuid.UUID, req *dto.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" ||
		req.Price <= 0 || strings.TrimSpace(req.Category) == "" || req.Stock < 0 {
		return nil, errors.New("please provide all required fields")
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"description": req.Description,
		"price":       req.Price,
		"category":    strings.TrimSpace(req.Category),
		"stock":       req.Stock,
	}
	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes the product with its reviews and order lines and returns
// the deleted product so callers can clean up its hosted images afterwards.
func (s *ProductService) Delete(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// RecentForRecommendation returns the newest products fed to the generative
// recommendation filter.
func (s *ProductService) RecentForRecommendation(limit int) ([]models.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var products []models.Product
	err := s.db.Order("created_at DESC").Limit(limit).Find(&products).Error
	return products, err
}

// HostedImages decodes the product's stored image list.
func HostedImages(p *models.Product) []models.ProductImage {
	var images []models.ProductImage
	if len(p.Images) == 0 {
		return nil
	}
	if err := json.Unmarshal(p.Images, &images); err != nil {
		return nil
	}
	return images
}
