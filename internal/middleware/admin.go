package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"gorm.io/gorm"
)

// AdminRequired checks the authenticated user's role column; role claims in
// the token are not trusted on their own since roles can change mid-session.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Message: "Unauthorized",
			})
		}

		if user.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false, Message: "Admin access required",
			})
		}

		return c.Next()
	}
}
