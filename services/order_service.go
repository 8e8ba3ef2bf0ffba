package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
)

// OrderView is the projection of an order returned by every read and mutate
// operation
type OrderView struct {
	ID           uint               `json:"id"`
	CustomerID   uint               `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	ServiceID    uint               `json:"service_id"`
	ServiceName  string             `json:"service_name"`
	ProviderID   *uint              `json:"provider_id,omitempty"`
	ProviderName *string            `json:"provider_name,omitempty"`
	ScheduledAt  time.Time          `json:"scheduled_at"`
	Address      string             `json:"address"`
	Notes        string             `json:"notes"`
	Status       models.OrderStatus `json:"status"`
	TotalPrice   decimal.Decimal    `json:"total_price"`
	CreatedAt    time.Time          `json:"created_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}

// CreateOrderInput carries the caller-supplied fields of a new order
type CreateOrderInput struct {
	ServiceID   uint
	ScheduledAt *time.Time
	Address     string
	Notes       string
}

// OrderService owns order records and their state transitions. Each mutation
// is atomic on the single order it touches; event publication and
// notifications run after the commit and any failure there is logged and
// discarded, never surfaced to the caller.
type OrderService struct {
	cache *OrderCache
}

var orderServiceInstance *OrderService

// InitOrderService initializes the order service with a fresh read cache
func InitOrderService() *OrderService {
	orderServiceInstance = &OrderService{
		cache: NewOrderCache(DefaultOrderCacheTTL),
	}
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// CreateOrder places a new order for a customer. The service's current price
// is snapshotted into the order and never recomputed; the service's assigned
// provider (if any) is copied onto the order; the address falls back to the
// customer's stored address.
func (s *OrderService) CreateOrder(customerID uint, input CreateOrderInput) (*OrderView, error) {
	db := config.GetDB()

	var customer models.User
	if err := db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "customer", ID: customerID}
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	var service models.Service
	if err := db.Preload("Provider").First(&service, input.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "service", ID: input.ServiceID}
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	if input.ScheduledAt == nil {
		return nil, &InvalidError{Message: "scheduled date time is required"}
	}
	if service.Price == nil {
		return nil, &InvalidError{Message: "service price is not set"}
	}

	address := input.Address
	if address == "" {
		address = customer.Address
	}

	order := models.Order{
		CustomerID:  customer.ID,
		ServiceID:   service.ID,
		ProviderID:  service.ProviderID,
		ScheduledAt: *input.ScheduledAt,
		Address:     address,
		Notes:       input.Notes,
		Status:      models.StatusPending,
		TotalPrice:  *service.Price,
	}
	if err := db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.cache.Invalidate()

	// Best-effort side effects; the committed order does not depend on them
	s.publishEvent(&order, "Order created successfully")
	s.tryNotify(customer.ID, "ORDER_CREATED", "Order Created",
		fmt.Sprintf("Your order for %s has been created successfully", service.Name))
	if service.ProviderID != nil {
		s.tryNotify(*service.ProviderID, "NEW_ORDER", "New Order",
			fmt.Sprintf("You have a new order for %s", service.Name))
	}

	loaded, err := s.loadOrder(db, order.ID)
	if err != nil {
		return nil, err
	}
	view := toOrderView(loaded)
	return &view, nil
}

// UpdateOrderStatus sets an order's status without an ownership check. Used
// by administrative callers.
func (s *OrderService) UpdateOrderStatus(orderID uint, status models.OrderStatus) (*OrderView, error) {
	return s.updateStatus(orderID, status, nil)
}

// UpdateOrderStatusForProvider sets an order's status on behalf of a
// provider. When the order has an assigned provider it must match the acting
// provider; orders without an assigned provider can be updated by any
// provider-role caller.
func (s *OrderService) UpdateOrderStatusForProvider(orderID uint, status models.OrderStatus, providerID uint) (*OrderView, error) {
	return s.updateStatus(orderID, status, &providerID)
}

func (s *OrderService) updateStatus(orderID uint, status models.OrderStatus, actingProviderID *uint) (*OrderView, error) {
	db := config.GetDB()

	order, err := s.loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}

	if actingProviderID != nil && order.ProviderID != nil && *order.ProviderID != *actingProviderID {
		return nil, &ForbiddenError{Message: "providers can only update the status of their own orders"}
	}

	// The transition graph is not enforced here: role-gated handlers decide
	// which transitions each caller may request, and admins can override.
	order.Status = status
	if status == models.StatusCompleted && order.CompletedAt == nil {
		now := time.Now()
		order.CompletedAt = &now
	}

	if err := db.Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.cache.Invalidate()

	s.publishEvent(order, fmt.Sprintf("Order status updated to %s", status))
	s.tryNotify(order.CustomerID, "ORDER_STATUS_UPDATED", "Order Status Updated",
		fmt.Sprintf("Your order status has been updated to %s", status))

	view := toOrderView(order)
	return &view, nil
}

// CancelOrder forces an order into CANCELLED. Calling it on an already
// terminal order is not an error; the result is the same.
func (s *OrderService) CancelOrder(orderID uint) error {
	db := config.GetDB()

	order, err := s.loadOrder(db, orderID)
	if err != nil {
		return err
	}

	order.Status = models.StatusCancelled
	if err := db.Save(order).Error; err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	s.cache.Invalidate()

	s.publishEvent(order, "Order cancelled")
	// No customer notification for a self-initiated cancellation
	if order.ProviderID != nil {
		s.tryNotify(*order.ProviderID, "ORDER_CANCELLED", "Order Cancelled",
			fmt.Sprintf("Order #%d has been cancelled", order.ID))
	}
	return nil
}

// DeleteOrder permanently removes an order. The deletion event carries the
// order's status at the time of deletion; it is the only trace retained.
func (s *OrderService) DeleteOrder(orderID uint) error {
	db := config.GetDB()

	order, err := s.loadOrder(db, orderID)
	if err != nil {
		return err
	}

	s.publishEvent(order, "Order deleted by admin")

	if err := db.Delete(&models.Order{}, orderID).Error; err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.cache.Invalidate()
	return nil
}

// GetAllOrders returns every order
func (s *OrderService) GetAllOrders() ([]OrderView, error) {
	return s.cachedList(orderCacheKeyAll(), func(db *gorm.DB) *gorm.DB {
		return db
	})
}

// GetOrderByID returns a single order projection
func (s *OrderService) GetOrderByID(orderID uint) (*OrderView, error) {
	key := orderCacheKeyID(orderID)
	if views, ok := s.cache.Get(key); ok && len(views) == 1 {
		return &views[0], nil
	}

	order, err := s.loadOrder(config.GetDB(), orderID)
	if err != nil {
		return nil, err
	}
	view := toOrderView(order)
	s.cache.Set(key, []OrderView{view})
	return &view, nil
}

// GetOrdersByCustomer returns the orders placed by a customer
func (s *OrderService) GetOrdersByCustomer(customerID uint) ([]OrderView, error) {
	return s.cachedList(orderCacheKeyCustomer(customerID), func(db *gorm.DB) *gorm.DB {
		return db.Where("customer_id = ?", customerID)
	})
}

// GetOrdersByProvider returns the orders assigned to a provider
func (s *OrderService) GetOrdersByProvider(providerID uint) ([]OrderView, error) {
	return s.cachedList(orderCacheKeyProvider(providerID), func(db *gorm.DB) *gorm.DB {
		return db.Where("provider_id = ?", providerID)
	})
}

// GetOrdersByStatus returns the orders currently in a given status
func (s *OrderService) GetOrdersByStatus(status models.OrderStatus) ([]OrderView, error) {
	return s.cachedList(orderCacheKeyStatus(status), func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	})
}

// cachedList runs a list query through the read cache
func (s *OrderService) cachedList(key string, scope func(*gorm.DB) *gorm.DB) ([]OrderView, error) {
	if views, ok := s.cache.Get(key); ok {
		return views, nil
	}

	db := config.GetDB()
	var orders []models.Order
	err := scope(db).
		Preload("Customer").
		Preload("Service").
		Preload("Provider").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, toOrderView(&orders[i]))
	}
	s.cache.Set(key, views)
	return views, nil
}

// loadOrder fetches an order with its relations, mapping a missing record to
// a NotFoundError
func (s *OrderService) loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Customer").
		Preload("Service").
		Preload("Provider").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// publishEvent emits an order event, logging and discarding any failure
func (s *OrderService) publishEvent(order *models.Order, message string) {
	publisher := GetEventPublisher()
	if publisher == nil {
		return
	}

	event := models.OrderEvent{
		EventID:    uuid.NewString(),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		ServiceID:  order.ServiceID,
		Status:     order.Status,
		Timestamp:  time.Now(),
		Message:    message,
	}
	if err := publisher.Publish(event); err != nil {
		config.Log.Warn("failed to publish order event",
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
	}
}

// tryNotify sends a notification, logging and discarding any failure
func (s *OrderService) tryNotify(userID uint, notificationType, title, message string) {
	notifier := GetNotifier()
	if notifier == nil {
		return
	}
	if err := notifier.Notify(userID, notificationType, title, message); err != nil {
		config.Log.Warn("failed to send notification",
			zap.Uint("user_id", userID),
			zap.String("type", notificationType),
			zap.Error(err),
		)
	}
}

// toOrderView builds the projection from an order with preloaded relations
func toOrderView(order *models.Order) OrderView {
	view := OrderView{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: order.Customer.FullName(),
		ServiceID:    order.ServiceID,
		ServiceName:  order.Service.Name,
		ScheduledAt:  order.ScheduledAt,
		Address:      order.Address,
		Notes:        order.Notes,
		Status:       order.Status,
		TotalPrice:   order.TotalPrice,
		CreatedAt:    order.CreatedAt,
		CompletedAt:  order.CompletedAt,
	}
	if order.Provider != nil {
		providerID := order.Provider.ID
		providerName := order.Provider.FullName()
		view.ProviderID = &providerID
		view.ProviderName = &providerName
	}
	return view
}
