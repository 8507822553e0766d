package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrPurchaseRequired is distinguished from a generic forbidden error so
	// the handler can render the "purchase required" payload.
	ErrPurchaseRequired = errors.New("you can only review a product you've purchased")
	ErrReviewNotFound   = errors.New("review not found")
	ErrInvalidReview    = errors.New("invalid review input")
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// hasPaidOrderLine reports whether the user holds an order line for the
// product on an order whose payment settled as Paid.
func (s *ReviewService) hasPaidOrderLine(userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN payments ON payments.order_id = orders.id").
		Where("orders.buyer_id = ? AND order_items.product_id = ? AND payments.payment_status = ?",
			userID, productID, models.PaymentPaid).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Submit upserts the user's review for the product and recomputes the
// product's mean rating, all inside one transaction. A second submission by
// the same user overwrites the first.
func (s *ReviewService) Submit(userID, productID uuid.UUID, rating float64, comment string) (*models.Review, *models.Product, error) {
	if rating < 0 || rating > 5 {
		return nil, nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidReview)
	}
	if strings.TrimSpace(comment) == "" {
		return nil, nil, fmt.Errorf("%w: please provide rating and comment", ErrInvalidReview)
	}

	eligible, err := s.hasPaidOrderLine(userID, productID)
	if err != nil {
		return nil, nil, err
	}
	if !eligible {
		return nil, nil, ErrPurchaseRequired
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProductNotFound
		}
		return nil, nil, err
	}

	var review models.Review
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		err := tx.Where("product_id = ? AND user_id = ?", productID, userID).First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{"rating": rating, "comment": comment}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			review = existing
			review.Rating = rating
			review.Comment = comment
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{
				ID:        uuid.New(),
				ProductID: productID,
				UserID:    userID,
				Rating:    rating,
				Comment:   comment,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		default:
			return err
		}

		avg, err := meanRating(tx, productID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Update("ratings", avg).Error; err != nil {
			return err
		}
		product.Ratings = avg
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &review, &product, nil
}

// Delete removes the user's own review and recomputes the aggregate in the
// same transactional shape as Submit.
func (s *ReviewService) Delete(userID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("product_id = ? AND user_id = ?", productID, userID).Delete(&models.Review{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}

		avg, err := meanRating(tx, productID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Update("ratings", avg).Error; err != nil {
			return err
		}
		product.Ratings = avg
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// meanRating is the average of all current review ratings for the product,
// rounded to one decimal place; zero when no reviews remain.
func meanRating(tx *gorm.DB, productID uuid.UUID) (float64, error) {
	var avg float64
	err := tx.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}
	return math.Round(avg*10) / 10, nil
}
