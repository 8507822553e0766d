package dto

import "github.com/lubanrahat/ShopMateEcommerce/internal/models"

type UsersListResponse struct {
	Success     bool           `json:"success"`
	TotalUsers  int64          `json:"totalUsers"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	Users       []UserResponse `json:"users"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type MonthlyRevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type TopProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Ratings   float64 `json:"ratings"`
	TotalSold int64   `json:"total_sold"`
}

type DashboardStats struct {
	TotalRevenue         float64               `json:"totalRevenue"`
	TodaysRevenue        float64               `json:"todaysRevenue"`
	YesterdaysRevenue    float64               `json:"yesterdaysRevenue"`
	OrdersByStatus       []StatusCount         `json:"ordersByStatus"`
	MonthlyRevenue       []MonthlyRevenuePoint `json:"monthlyRevenue"`
	TopProducts          []TopProduct          `json:"topProducts"`
	CurrentMonthRevenue  float64               `json:"currentMonthRevenue"`
	PreviousMonthRevenue float64               `json:"previousMonthRevenue"`
	RevenueGrowthRate    string                `json:"revenueGrowthRate"`
	LowStockProducts     []models.Product      `json:"lowStockProducts"`
	NewUsersThisMonth    int64                 `json:"newUsersThisMonth"`
}

type DashboardStatsResponse struct {
	Success bool            `json:"success"`
	Stats   *DashboardStats `json:"stats"`
}
