package controllers

import (
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

// setupTestDB creates an in-memory database with the full schema, installs it
// globally and wires the order and stats services against mock messaging
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Service{},
		&models.Order{},
		&models.Review{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)

	services.NewMockEventPublisher().SetAsMockForTesting()
	services.NewMockNotifier().SetAsMockForTesting()
	services.InitOrderService()
	services.InitStatsService()
	services.InitTokenService("test-secret")
	services.SetImageService(nil)

	return db
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// mockAuthMiddleware injects an authenticated identity the way RequireAuth
// does after validating a token
func mockAuthMiddleware(userID uint, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", "test-user")
		c.Set("user_role", role)
		c.Next()
	}
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  string(hashed),
		FirstName: "Test",
		LastName:  "User",
		Address:   "9 Fixture Street",
		Role:      role,
		Active:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return &category
}

func createService(t *testing.T, db *gorm.DB, name, price string, categoryID uint, providerID *uint) *models.Service {
	t.Helper()

	service := models.Service{
		Name:            name,
		DurationMinutes: 45,
		CategoryID:      categoryID,
		ProviderID:      providerID,
		Active:          true,
	}
	if price != "" {
		p := decimal.RequireFromString(price)
		service.Price = &p
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return &service
}

func createOrder(t *testing.T, db *gorm.DB, customerID, serviceID uint, providerID *uint, status models.OrderStatus) *models.Order {
	t.Helper()

	order := models.Order{
		CustomerID:  customerID,
		ServiceID:   serviceID,
		ProviderID:  providerID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Address:     "9 Fixture Street",
		Status:      status,
		TotalPrice:  decimal.RequireFromString("100.00"),
	}
	if status == models.StatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	return &order
}
