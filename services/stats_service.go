package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
)

// ProviderStats is the per-provider rollup, recomputed from the current order
// set on every request
type ProviderStats struct {
	TotalServices     int64            `json:"total_services"`
	TotalOrders       int64            `json:"total_orders"`
	PendingOrders     int64            `json:"pending_orders"`
	ConfirmedOrders   int64            `json:"confirmed_orders"`
	InProgressOrders  int64            `json:"in_progress_orders"`
	CompletedOrders   int64            `json:"completed_orders"`
	CancelledOrders   int64            `json:"cancelled_orders"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	AverageOrderValue decimal.Decimal  `json:"average_order_value"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	OrdersByService   map[string]int64 `json:"orders_by_service"`
}

// PlatformStats is the platform-wide rollup shown to admins
type PlatformStats struct {
	TotalUsers      int64            `json:"total_users"`
	TotalCustomers  int64            `json:"total_customers"`
	TotalProviders  int64            `json:"total_providers"`
	TotalServices   int64            `json:"total_services"`
	TotalOrders     int64            `json:"total_orders"`
	PendingOrders   int64            `json:"pending_orders"`
	CompletedOrders int64            `json:"completed_orders"`
	CancelledOrders int64            `json:"cancelled_orders"`
	TotalRevenue    decimal.Decimal  `json:"total_revenue"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	UsersByRole     map[string]int64 `json:"users_by_role"`
}

// StatsService derives provider- and platform-level statistics by scanning
// the current order set. It is read-only: results are point-in-time snapshots
// with no consistency guarantee against concurrent mutations.
type StatsService struct{}

var statsServiceInstance *StatsService

// InitStatsService initializes the stats service
func InitStatsService() *StatsService {
	statsServiceInstance = &StatsService{}
	return statsServiceInstance
}

// GetStatsService returns the initialized stats service instance
func GetStatsService() *StatsService {
	return statsServiceInstance
}

// GetProviderStats computes the rollup over all orders assigned to the given
// provider. Revenue counts COMPLETED orders only; the average order value is
// rounded half-up to two decimal places and is zero when there are no
// completed orders.
func (s *StatsService) GetProviderStats(providerID uint) (*ProviderStats, error) {
	db := config.GetDB()

	var totalServices int64
	if err := db.Model(&models.Service{}).Where("provider_id = ?", providerID).Count(&totalServices).Error; err != nil {
		return nil, fmt.Errorf("failed to count provider services: %w", err)
	}

	var orders []models.Order
	if err := db.Preload("Service").Where("provider_id = ?", providerID).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch provider orders: %w", err)
	}

	stats := &ProviderStats{
		TotalServices:   totalServices,
		TotalOrders:     int64(len(orders)),
		TotalRevenue:    decimal.Zero,
		OrdersByStatus:  make(map[string]int64, len(models.AllOrderStatuses)),
		OrdersByService: make(map[string]int64),
	}
	for _, status := range models.AllOrderStatuses {
		stats.OrdersByStatus[string(status)] = 0
	}

	for i := range orders {
		order := &orders[i]
		stats.OrdersByStatus[string(order.Status)]++

		switch order.Status {
		case models.StatusPending:
			stats.PendingOrders++
		case models.StatusConfirmed:
			stats.ConfirmedOrders++
		case models.StatusInProgress:
			stats.InProgressOrders++
		case models.StatusCompleted:
			stats.CompletedOrders++
			stats.TotalRevenue = stats.TotalRevenue.Add(order.TotalPrice)
			stats.OrdersByService[order.Service.Name]++
		case models.StatusCancelled:
			stats.CancelledOrders++
		}
	}

	if stats.CompletedOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.
			DivRound(decimal.NewFromInt(stats.CompletedOrders), 2)
	} else {
		stats.AverageOrderValue = decimal.Zero
	}

	return stats, nil
}

// GetPlatformStats computes the platform-wide rollup. The breakdown maps
// cover every status and role even when the count is zero.
func (s *StatsService) GetPlatformStats() (*PlatformStats, error) {
	db := config.GetDB()

	stats := &PlatformStats{
		TotalRevenue:   decimal.Zero,
		OrdersByStatus: make(map[string]int64, len(models.AllOrderStatuses)),
		UsersByRole:    make(map[string]int64, len(models.AllRoles)),
	}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	for _, role := range models.AllRoles {
		var count int64
		if err := db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count users by role: %w", err)
		}
		stats.UsersByRole[string(role)] = count
	}
	stats.TotalCustomers = stats.UsersByRole[string(models.RoleCustomer)]
	stats.TotalProviders = stats.UsersByRole[string(models.RoleProvider)]

	if err := db.Model(&models.Service{}).Count(&stats.TotalServices).Error; err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	for _, status := range models.AllOrderStatuses {
		var count int64
		if err := db.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count orders by status: %w", err)
		}
		stats.OrdersByStatus[string(status)] = count
	}
	stats.PendingOrders = stats.OrdersByStatus[string(models.StatusPending)]
	stats.CompletedOrders = stats.OrdersByStatus[string(models.StatusCompleted)]
	stats.CancelledOrders = stats.OrdersByStatus[string(models.StatusCancelled)]

	var completed []models.Order
	if err := db.Where("status = ?", models.StatusCompleted).Find(&completed).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch completed orders: %w", err)
	}
	for i := range completed {
		stats.TotalRevenue = stats.TotalRevenue.Add(completed[i].TotalPrice)
	}

	return stats, nil
}
