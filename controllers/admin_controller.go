package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

// AdminCreateUserRequest represents the request body for an admin creating a
// user with an explicit role
type AdminCreateUserRequest struct {
	Username  string `json:"username" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Role      string `json:"role" binding:"required"`
}

// UpdateActiveRequest represents the request body for toggling an active flag
type UpdateActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UpdateRoleRequest represents the request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AdminCreateOrderRequest represents the request body for an admin placing
// an order on behalf of a customer
type AdminCreateOrderRequest struct {
	CustomerID  uint       `json:"customer_id" binding:"required"`
	ServiceID   uint       `json:"service_id" binding:"required"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Address     string     `json:"address"`
	Notes       string     `json:"notes"`
}

// GetPlatformStats handles GET /api/v1/admin/stats
func GetPlatformStats(c *gin.Context) {
	stats, err := services.GetStatsService().GetPlatformStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// ListUsers handles GET /api/v1/admin/users
func ListUsers(c *gin.Context) {
	db := config.GetDB()

	var users []models.User
	if err := db.Order("id ASC").Find(&users).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// AdminCreateUser handles POST /api/v1/admin/users
func AdminCreateUser(c *gin.Context) {
	var req AdminCreateUserRequest
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

	role := models.Role(req.Role)
	if !role.IsValid() {
		respondServiceError(c, &services.InvalidError{Message: "unknown role"})
		return
	}

	db := config.GetDB()

	var count int64
	db.Model(&models.User{}).Where("username = ? OR email = ?", req.Username, req.Email).Count(&count)
	if count > 0 {
		respondServiceError(c, &services.ConflictError{Message: "username or email already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Role:      role,
		Active:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateUserStatus handles PUT /api/v1/admin/users/:id/status
func UpdateUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateActiveRequest
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

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "user", ID: id})
		return
	}

	user.Active = *req.Active
	if err := db.Save(&user).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateUserRole handles PUT /api/v1/admin/users/:id/role
func UpdateUserRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
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

	role := models.Role(req.Role)
	if !role.IsValid() {
		respondServiceError(c, &services.InvalidError{Message: "unknown role"})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "user", ID: id})
		return
	}

	user.Role = role
	if err := db.Save(&user).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "user", ID: id})
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}

// ListAllServices handles GET /api/v1/admin/services - inactive included
func ListAllServices(c *gin.Context) {
	db := config.GetDB()

	var items []models.Service
	err := db.Preload("Category").Preload("Provider").Order("id ASC").Find(&items).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildServiceViews(db, items),
	})
}

// UpdateServiceStatus handles PUT /api/v1/admin/services/:id/status
func UpdateServiceStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateActiveRequest
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

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "service", ID: id})
		return
	}

	service.Active = *req.Active
	if err := db.Save(&service).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := db.Preload("Category").Preload("Provider").First(&service, service.ID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildServiceView(db, &service),
	})
}

// AdminDeleteService handles DELETE /api/v1/admin/services/:id - hard
// delete, unlike the provider-facing soft delete
func AdminDeleteService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "service", ID: id})
		return
	}

	if err := db.Delete(&service).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service deleted",
	})
}

// ListAllOrders handles GET /api/v1/admin/orders
func ListAllOrders(c *gin.Context) {
	orders, err := services.GetOrderService().GetAllOrders()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// AdminUpdateOrderStatus handles PUT /api/v1/admin/orders/:id/status - no
// ownership check
func AdminUpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
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

	order, err := services.GetOrderService().UpdateOrderStatus(id, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// AdminDeleteOrder handles DELETE /api/v1/admin/orders/:id - permanent
// removal through the ledger, which emits the deletion event first
func AdminDeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.GetOrderService().DeleteOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

// AdminCreateOrder handles POST /api/v1/admin/orders - placing an order on
// behalf of a customer
func AdminCreateOrder(c *gin.Context) {
	var req AdminCreateOrderRequest
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

	order, err := services.GetOrderService().CreateOrder(req.CustomerID, services.CreateOrderInput{
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
