package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/middleware"
	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

// ServiceRequest represents the request body for creating or updating a
// service
type ServiceRequest struct {
	Name            string           `json:"name" binding:"required"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes int              `json:"duration_minutes"`
	CategoryID      uint             `json:"category_id" binding:"required"`
	ProviderID      *uint            `json:"provider_id"`
}

// ServiceView is the catalog projection returned to callers
type ServiceView struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes int              `json:"duration_minutes"`
	ImageURL        string           `json:"image_url,omitempty"`
	CategoryID      uint             `json:"category_id"`
	CategoryName    string           `json:"category_name"`
	ProviderID      *uint            `json:"provider_id,omitempty"`
	ProviderName    *string          `json:"provider_name,omitempty"`
	Active          bool             `json:"active"`
	AverageRating   float64          `json:"average_rating"`
	ReviewCount     int64            `json:"review_count"`
}

// buildServiceView assembles the projection for a service with preloaded
// Category and Provider relations
func buildServiceView(db *gorm.DB, service *models.Service) ServiceView {
	view := ServiceView{
		ID:              service.ID,
		Name:            service.Name,
		Description:     service.Description,
		Price:           service.Price,
		DurationMinutes: service.DurationMinutes,
		CategoryID:      service.CategoryID,
		CategoryName:    service.Category.Name,
		Active:          service.Active,
	}
	if service.Provider != nil {
		providerID := service.Provider.ID
		providerName := service.Provider.FullName()
		view.ProviderID = &providerID
		view.ProviderName = &providerName
	}

	var agg struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(reviews.rating), 0) AS avg, COUNT(*) AS count").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.service_id = ?", service.ID).
		Scan(&agg).Error
	if err == nil {
		view.AverageRating = agg.Avg
		view.ReviewCount = agg.Count
	}

	if imageService := services.GetImageService(); imageService != nil && service.ImageKey != "" {
		url, err := imageService.GetImageURL(service.ImageKey)
		if err != nil {
			config.Log.Warn("failed to build image URL",
				zap.Uint("service_id", service.ID),
				zap.Error(err),
			)
		} else {
			view.ImageURL = url
		}
	}

	return view
}

func buildServiceViews(db *gorm.DB, items []models.Service) []ServiceView {
	views := make([]ServiceView, 0, len(items))
	for i := range items {
		views = append(views, buildServiceView(db, &items[i]))
	}
	return views
}

// ListServices handles GET /api/v1/services - active services only
func ListServices(c *gin.Context) {
	db := config.GetDB()

	var items []models.Service
	err := db.Preload("Category").Preload("Provider").
		Where("active = ?", true).
		Find(&items).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildServiceViews(db, items),
	})
}

// GetService handles GET /api/v1/services/:id
func GetService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var service models.Service
	err := db.Preload("Category").Preload("Provider").First(&service, id).Error
	if err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "service", ID: id})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildServiceView(db, &service),
	})
}

// ListServicesByCategory handles GET /api/v1/services/category/:categoryId
func ListServicesByCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "categoryId")
	if !ok {
		return
	}

	db := config.GetDB()
	var items []models.Service
	err := db.Preload("Category").Preload("Provider").
		Where("category_id = ? AND active = ?", categoryID, true).
		Find(&items).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildServiceViews(db, items),
	})
}

// ListServicesByProvider handles GET /api/v1/services/provider/:providerId
func ListServicesByProvider(c *gin.Context) {
	providerID, ok := parseIDParam(c, "providerId")
	if !ok {
		return
	}

	db := config.GetDB()
	var items []models.Service
	err := db.Preload("Category").Preload("Provider").
		Where("provider_id = ?", providerID).
		Find(&items).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildServiceViews(db, items),
	})
}

// CreateService handles POST /api/v1/services (provider or admin). A
// provider always creates services assigned to themselves; an admin may
// assign any provider or none.
func CreateService(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	role, err := middleware.GetUserRole(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req ServiceRequest
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

	var category models.Category
	if err := db.First(&category, req.CategoryID).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "category", ID: req.CategoryID})
		return
	}

	providerID := req.ProviderID
	if role == models.RoleProvider {
		providerID = &userID
	}
	if providerID != nil {
		var provider models.User
		if err := db.First(&provider, *providerID).Error; err != nil {
			respondServiceError(c, &services.NotFoundError{Resource: "provider", ID: *providerID})
			return
		}
	}

	service := models.Service{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		CategoryID:      category.ID,
		ProviderID:      providerID,
		Active:          true,
	}
	if err := db.Create(&service).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := db.Preload("Category").Preload("Provider").First(&service, service.ID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    buildServiceView(db, &service),
	})
}

// UpdateService handles PUT /api/v1/services/:id. Providers can only update
// their own services; admins can update any.
func UpdateService(c *gin.Context) {
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

	var req ServiceRequest
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

	if role == models.RoleProvider && (service.ProviderID == nil || *service.ProviderID != userID) {
		respondServiceError(c, &services.ForbiddenError{Message: "providers can only update their own services"})
		return
	}

	service.Name = req.Name
	service.Description = req.Description
	service.Price = req.Price
	service.DurationMinutes = req.DurationMinutes
	if req.CategoryID != 0 && req.CategoryID != service.CategoryID {
		var category models.Category
		if err := db.First(&category, req.CategoryID).Error; err != nil {
			respondServiceError(c, &services.NotFoundError{Resource: "category", ID: req.CategoryID})
			return
		}
		service.CategoryID = category.ID
	}

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

// DeleteService handles DELETE /api/v1/services/:id - soft delete via the
// active flag, keeping existing orders intact
func DeleteService(c *gin.Context) {
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

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "service", ID: id})
		return
	}

	if role == models.RoleProvider && (service.ProviderID == nil || *service.ProviderID != userID) {
		respondServiceError(c, &services.ForbiddenError{Message: "providers can only delete their own services"})
		return
	}

	service.Active = false
	if err := db.Save(&service).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service deactivated",
	})
}

// UploadServiceImage handles POST /api/v1/services/:id/image - stores the
// image and replaces any previous one
func UploadServiceImage(c *gin.Context) {
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

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "service", ID: id})
		return
	}

	if role == models.RoleProvider && (service.ProviderID == nil || *service.ProviderID != userID) {
		respondServiceError(c, &services.ForbiddenError{Message: "providers can only update their own services"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "An image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	key, err := imageService.UploadImage(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	oldKey := service.ImageKey
	service.ImageKey = key
	if err := db.Save(&service).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if oldKey != "" {
		if err := imageService.DeleteImage(oldKey); err != nil {
			config.Log.Warn("failed to delete replaced image",
				zap.String("key", oldKey),
				zap.Error(err),
			)
		}
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
