package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const lowStockThreshold = 5

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats assembles the admin dashboard aggregates as of the moment of the
// call. The sub-queries are independent reads; the first failure fails the
// whole response.
func (s *DashboardService) Stats() (*dto.DashboardStats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	totalRevenue, err := s.paidRevenue(nil, nil)
	if err != nil {
		return nil, err
	}
	todaysRevenue, err := s.paidRevenue(&today, ptrTime(today.AddDate(0, 0, 1)))
	if err != nil {
		return nil, err
	}
	yesterdaysRevenue, err := s.paidRevenue(&yesterday, &today)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.ordersByStatus()
	if err != nil {
		return nil, err
	}

	monthly, err := s.monthlyRevenue()
	if err != nil {
		return nil, err
	}

	topProducts, err := s.topProducts(5)
	if err != nil {
		return nil, err
	}

	currentMonth, err := s.paidRevenue(&monthStart, ptrTime(monthStart.AddDate(0, 1, 0)))
	if err != nil {
		return nil, err
	}
	previousMonth, err := s.paidRevenue(&prevMonthStart, &monthStart)
	if err != nil {
		return nil, err
	}

	var lowStock []models.Product
	if err := s.db.Where("stock <= ?", lowStockThreshold).Order("stock ASC").Find(&lowStock).Error; err != nil {
		return nil, err
	}

	var newUsers int64
	err = s.db.Model(&models.User{}).
		Where("role = ? AND created_at >= ?", models.RoleUser, monthStart).
		Count(&newUsers).Error
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		TotalRevenue:         totalRevenue,
		TodaysRevenue:        todaysRevenue,
		YesterdaysRevenue:    yesterdaysRevenue,
		OrdersByStatus:       byStatus,
		MonthlyRevenue:       monthly,
		TopProducts:          topProducts,
		CurrentMonthRevenue:  currentMonth,
		PreviousMonthRevenue: previousMonth,
		RevenueGrowthRate:    GrowthRate(previousMonth, currentMonth),
		LowStockProducts:     lowStock,
		NewUsersThisMonth:    newUsers,
	}, nil
}

// paidRevenue sums total_price over paid orders, optionally bounded to
// [from, to).
func (s *DashboardService) paidRevenue(from, to *time.Time) (float64, error) {
	query := s.db.Model(&models.Order{}).Where("paid_at IS NOT NULL")
	if from != nil {
		query = query.Where("paid_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("paid_at < ?", *to)
	}

	var revenue float64
	err := query.Select("COALESCE(SUM(total_price), 0)").Scan(&revenue).Error
	return revenue, err
}

// ordersByStatus reports all four buckets, zero-filled.
func (s *DashboardService) ordersByStatus() ([]dto.StatusCount, error) {
	var rows []dto.StatusCount
	err := s.db.Model(&models.Order{}).
		Select("order_status AS status, COUNT(*) AS count").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	result := make([]dto.StatusCount, 0, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		result = append(result, dto.StatusCount{Status: status, Count: counts[status]})
	}
	return result, nil
}

// monthlyRevenue buckets paid orders by calendar month, chronologically,
// labeled "Jan 2006".
func (s *DashboardService) monthlyRevenue() ([]dto.MonthlyRevenuePoint, error) {
	var rows []struct {
		PaidAt     time.Time
		TotalPrice float64
	}
	err := s.db.Model(&models.Order{}).
		Select("paid_at, total_price").
		Where("paid_at IS NOT NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	type bucket struct {
		start   time.Time
		revenue float64
	}
	buckets := make(map[string]*bucket)
	for _, r := range rows {
		start := time.Date(r.PaidAt.Year(), r.PaidAt.Month(), 1, 0, 0, 0, 0, r.PaidAt.Location())
		key := start.Format("2006-01")
		if b, ok := buckets[key]; ok {
			b.revenue += r.TotalPrice
		} else {
			buckets[key] = &bucket{start: start, revenue: r.TotalPrice}
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start.Before(ordered[j].start) })

	points := make([]dto.MonthlyRevenuePoint, 0, len(ordered))
	for _, b := range ordered {
		points = append(points, dto.MonthlyRevenuePoint{
			Month:   b.start.Format("Jan 2006"),
			Revenue: b.revenue,
		})
	}
	return points, nil
}

// topProducts ranks products by total quantity sold across paid orders.
func (s *DashboardService) topProducts(limit int) ([]dto.TopProduct, error) {
	var rows []struct {
		ProductID string
		Name      string
		Category  string
		Ratings   float64
		Images    []byte
		TotalSold int64
	}
	err := s.db.Table("order_items").
		Select("products.id AS product_id, products.name, products.category, products.ratings, products.images, SUM(order_items.quantity) AS total_sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN payments ON payments.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("payments.payment_status = ?", models.PaymentPaid).
		Group("products.id, products.name, products.category, products.ratings, products.images").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]dto.TopProduct, 0, len(rows))
	for _, r := range rows {
		image := ""
		p := models.Product{Images: datatypes.JSON(r.Images)}
		if hosted := HostedImages(&p); len(hosted) > 0 {
			image = hosted[0].URL
		}
		result = append(result, dto.TopProduct{
			ProductID: r.ProductID,
			Name:      r.Name,
			Image:     image,
			Category:  r.Category,
			Ratings:   r.Ratings,
			TotalSold: r.TotalSold,
		})
	}
	return result, nil
}

// GrowthRate formats month-over-month growth with an explicit sign; "0%"
// when the previous month had no revenue.
func GrowthRate(previous, current float64) string {
	if previous == 0 {
		return "0%"
	}
	return fmt.Sprintf("%+.2f%%", (current-previous)/previous*100)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
