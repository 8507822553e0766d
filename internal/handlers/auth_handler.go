package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/middleware"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"github.com/lubanrahat/ShopMateEcommerce/internal/services"
)

type AuthHandler struct {
	authService  *services.AuthService
	mailService  services.MailService
	mediaService *services.MediaService
	cfg          *config.Config
}

func NewAuthHandler(authService *services.AuthService, mailService services.MailService, mediaService *services.MediaService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		mailService:  mailService,
		mediaService: mediaService,
		cfg:          cfg,
	}
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.cfg.CookieExpiry),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	user, token, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: err.Error(),
		})
	}

	h.setSessionCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		Success: true,
		Message: "User registered successfully",
		User:    userResponse(user),
		Token:   token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	user, token, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: err.Error(),
		})
	}

	h.setSessionCookie(c, token)
	return c.JSON(dto.AuthResponse{
		Success: true,
		Message: "Logged in successfully",
		User:    userResponse(user),
		Token:   token,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Success: false, Message: "User not found",
		})
	}

	return c.JSON(fiber.Map{"success": true, "user": userResponse(user)})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.MessageResponse{Success: true, Message: "Logged out successfully"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Please provide an email address",
		})
	}

	user, token, err := h.authService.ForgotPassword(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Failed to create reset token",
		})
	}

	resetURL := h.cfg.FrontendURL + "/password/reset/" + token
	body := services.ResetPasswordEmail(user.Name, resetURL)
	if err := h.mailService.Send(user.Email, "ShopMate Password Recovery", body); err != nil {
		slog.Error("reset mail delivery failed", "error", err, "user_id", user.ID.String())
		if clearErr := h.authService.ClearResetToken(user.ID); clearErr != nil {
			slog.Error("failed to clear reset token", "error", clearErr, "user_id", user.ID.String())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Failed to send reset email",
		})
	}

	return c.JSON(dto.MessageResponse{
		Success: true,
		Message: "Reset email sent to " + user.Email,
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	user, err := h.authService.ResetPassword(token, &req)
	if err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: err.Error(),
		})
	}

	sessionToken, err := h.authService.SignToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Internal server error",
		})
	}

	h.setSessionCookie(c, sessionToken)
	return c.JSON(dto.AuthResponse{
		Success: true,
		Message: "Password reset successfully",
		User:    userResponse(user),
		Token:   sessionToken,
	})
}

func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	if err := h.authService.UpdatePassword(userID, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Message: "Current password is incorrect",
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "User not found",
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		}
	}

	return c.JSON(dto.MessageResponse{Success: true, Message: "Password updated successfully"})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	var avatar *models.AvatarImage
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		uploaded, err := h.mediaService.Upload(file)
		if err != nil {
			slog.Error("avatar upload failed", "error", err, "user_id", userID.String())
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Success: false, Message: "Failed to upload avatar",
			})
		}
		avatar = &models.AvatarImage{URL: uploaded.URL, PublicID: uploaded.PublicID}
	}

	user, oldPublicID, err := h.authService.UpdateProfile(userID, &req, avatar)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: err.Error(),
		})
	}

	if oldPublicID != "" {
		if err := h.mediaService.Delete(oldPublicID); err != nil {
			slog.Error("old avatar cleanup failed", "error", err, "user_id", userID.String())
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    userResponse(user),
	})
}
