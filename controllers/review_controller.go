package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

// CreateReviewRequest represents the request body for leaving a review
type CreateReviewRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// UpdateReviewRequest represents the request body for editing a review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewView is the review projection returned to callers
type ReviewView struct {
	ID           uint      `json:"id"`
	OrderID      uint      `json:"order_id"`
	ServiceID    uint      `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	CustomerID   uint      `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	ProviderID   *uint     `json:"provider_id,omitempty"`
	ProviderName *string   `json:"provider_name,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func toReviewView(review *models.Review) ReviewView {
	view := ReviewView{
		ID:           review.ID,
		OrderID:      review.OrderID,
		ServiceID:    review.Order.ServiceID,
		ServiceName:  review.Order.Service.Name,
		CustomerID:   review.CustomerID,
		CustomerName: review.Customer.FullName(),
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt,
	}
	if review.Provider != nil {
		providerID := review.Provider.ID
		providerName := review.Provider.FullName()
		view.ProviderID = &providerID
		view.ProviderName = &providerName
	}
	return view
}

func reviewQuery(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Order").
		Preload("Order.Service").
		Preload("Customer").
		Preload("Provider")
}

func toReviewViews(reviews []models.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, toReviewView(&reviews[i]))
	}
	return views
}

// ListReviews handles GET /api/v1/reviews
func ListReviews(c *gin.Context) {
	db := config.GetDB()

	var reviews []models.Review
	if err := reviewQuery(db).Order("created_at DESC").Find(&reviews).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toReviewViews(reviews),
	})
}

// ListReviewsByService handles GET /api/v1/reviews/service/:serviceId
func ListReviewsByService(c *gin.Context) {
	serviceID, ok := parseIDParam(c, "serviceId")
	if !ok {
		return
	}

	db := config.GetDB()
	var reviews []models.Review
	err := reviewQuery(db).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.service_id = ?", serviceID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toReviewViews(reviews),
	})
}

// ListReviewsByProvider handles GET /api/v1/reviews/provider/:providerId
func ListReviewsByProvider(c *gin.Context) {
	providerID, ok := parseIDParam(c, "providerId")
	if !ok {
		return
	}

	db := config.GetDB()
	var reviews []models.Review
	err := reviewQuery(db).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toReviewViews(reviews),
	})
}

// CreateReview handles POST /api/v1/reviews. The reviewed order must exist,
// belong to the reviewing customer, be COMPLETED, and not already have a
// review.
func CreateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
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

	var order models.Order
	if err := db.First(&order, req.OrderID).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "order", ID: req.OrderID})
		return
	}

	if order.CustomerID != userID {
		respondServiceError(c, &services.ForbiddenError{Message: "you can only review your own orders"})
		return
	}
	if order.Status != models.StatusCompleted {
		respondServiceError(c, &services.InvalidError{Message: "you can only review completed orders"})
		return
	}

	var existing int64
	db.Model(&models.Review{}).Where("order_id = ?", order.ID).Count(&existing)
	if existing > 0 {
		respondServiceError(c, &services.ConflictError{Message: "review already exists for this order"})
		return
	}

	review := models.Review{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		ProviderID: order.ProviderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := db.Create(&review).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := reviewQuery(db).First(&review, review.ID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    toReviewView(&review),
	})
}

// UpdateReview handles PUT /api/v1/reviews/:id - the reviewing customer
// editing their rating or comment
func UpdateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateReviewRequest
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
	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "review", ID: id})
		return
	}

	if review.CustomerID != userID {
		respondServiceError(c, &services.ForbiddenError{Message: "you can only edit your own reviews"})
		return
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := db.Save(&review).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := reviewQuery(db).First(&review, review.ID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toReviewView(&review),
	})
}

// DeleteReview handles DELETE /api/v1/admin/reviews/:id
func DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "review", ID: id})
		return
	}

	if err := db.Delete(&review).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review deleted",
	})
}
