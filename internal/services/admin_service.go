package services

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"gorm.io/gorm"
)

const usersPageSize = 10

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// ListUsers returns a page of USER-role accounts, newest first.
func (s *AdminService) ListUsers(page int) (*dto.UsersListResponse, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * usersPageSize

	var total int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := s.db.Where("role = ?", models.RoleUser).
		Order("created_at DESC").
		Limit(usersPageSize).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	resp := &dto.UsersListResponse{
		Success:     true,
		TotalUsers:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(usersPageSize))),
		CurrentPage: page,
		Users:       make([]dto.UserResponse, len(users)),
	}
	for i, u := range users {
		resp.Users[i] = dto.UserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Avatar:    u.Avatar,
			CreatedAt: u.CreatedAt,
		}
	}
	return resp, nil
}

// DeleteUser removes the account along with its products, reviews and
// orders, cascading through the child rows in one transaction. The hosted
// image ids owned by the account (avatar plus product images) are returned
// for best-effort cleanup.
func (s *AdminService) DeleteUser(id uuid.UUID) ([]string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var publicIDs []string
	if len(user.Avatar) > 0 {
		var avatar models.AvatarImage
		if err := json.Unmarshal(user.Avatar, &avatar); err == nil && avatar.PublicID != "" {
			publicIDs = append(publicIDs, avatar.PublicID)
		}
	}

	var products []models.Product
	if err := s.db.Where("created_by = ?", id).Find(&products).Error; err != nil {
		return nil, err
	}
	productIDs := make([]uuid.UUID, 0, len(products))
	for i := range products {
		productIDs = append(productIDs, products[i].ID)
		for _, img := range HostedImages(&products[i]) {
			if img.PublicID != "" {
				publicIDs = append(publicIDs, img.PublicID)
			}
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}

		var orderIDs []uuid.UUID
		if err := tx.Model(&models.Order{}).Where("buyer_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.ShippingInfo{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("buyer_id = ?", id).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}

		if len(productIDs) > 0 {
			if err := tx.Where("created_by = ?", id).Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return publicIDs, nil
}
