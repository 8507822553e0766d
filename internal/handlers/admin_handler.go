package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/services"
)

type AdminHandler struct {
	adminService     *services.AdminService
	dashboardService *services.DashboardService
	mediaService     *services.MediaService
}

func NewAdminHandler(adminService *services.AdminService, dashboardService *services.DashboardService, mediaService *services.MediaService) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		dashboardService: dashboardService,
		mediaService:     mediaService,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	resp, err := h.adminService.ListUsers(c.QueryInt("page", 1))
	if err != nil {
		slog.Error("failed to list users", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Internal server error",
		})
	}
	return c.JSON(resp)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid user id",
		})
	}

	publicIDs, err := h.adminService.DeleteUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Failed to delete user",
		})
	}

	for _, id := range publicIDs {
		if err := h.mediaService.Delete(id); err != nil {
			slog.Error("hosted image cleanup failed", "error", err, "public_id", id)
		}
	}

	return c.JSON(dto.MessageResponse{Success: true, Message: "User deleted successfully"})
}

func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats()
	if err != nil {
		slog.Error("failed to compute dashboard stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Internal server error",
		})
	}

	return c.JSON(dto.DashboardStatsResponse{Success: true, Stats: stats})
}
