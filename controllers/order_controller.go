package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ella-marsh/handyhub-api/middleware"
	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

// CreateOrderRequest represents the request body for placing an order.
// ScheduledAt is validated by the ledger so a missing value maps to the
// invalid-input error kind rather than a binding failure.
type CreateOrderRequest struct {
	ServiceID   uint       `json:"service_id" binding:"required"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Address     string     `json:"address"`
	Notes       string     `json:"notes"`
}

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - places an order for the
// authenticated customer
func CreateOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := services.GetOrderService().CreateOrder(userID, services.CreateOrderInput{
		ServiceID:   req.ServiceID,
		ScheduledAt: req.ScheduledAt,
		Address:     req.Address,
		Notes:       req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetMyOrders handles GET /api/v1/orders/my - the authenticated customer's
// orders
func GetMyOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := services.GetOrderService().GetOrdersByCustomer(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetMyProviderOrders handles GET /api/v1/orders/my-provider - orders
// assigned to the authenticated provider
func GetMyProviderOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := services.GetOrderService().GetOrdersByProvider(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id. Customers see their own orders,
// providers the orders assigned to them, admins any order.
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	role, err := middleware.GetUserRole(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	order, err := services.GetOrderService().GetOrderByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	canView := role == models.RoleAdmin
	switch role {
	case models.RoleCustomer:
		canView = order.CustomerID == userID
	case models.RoleProvider:
		canView = order.ProviderID != nil && *order.ProviderID == userID
	}
	if !canView {
		respondServiceError(c, &services.ForbiddenError{Message: "you do not have access to this order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status - provider status
// transitions, ownership-checked by the ledger
func UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		respondServiceError(c, &services.InvalidError{Message: err.Error()})
		return
	}

	order, err := services.GetOrderService().UpdateOrderStatusForProvider(id, status, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CancelOrder handles DELETE /api/v1/orders/:id - a customer cancelling
// their own order
func CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	role, err := middleware.GetUserRole(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ledger := services.GetOrderService()

	order, err := ledger.GetOrderByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if role == models.RoleCustomer && order.CustomerID != userID {
		respondServiceError(c, &services.ForbiddenError{Message: "customers can only cancel their own orders"})
		return
	}

	if err := ledger.CancelOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order cancelled",
	})
}

// GetProviderStats handles GET /api/v1/orders/provider/stats - the
// authenticated provider's statistics
func GetProviderStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := services.GetStatsService().GetProviderStats(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
