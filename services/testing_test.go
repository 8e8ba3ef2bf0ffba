package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
)

// setupTestDB creates an in-memory database with the full schema and installs
// it as the global handle
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
	return db
}

// setupOrderService wires the order service against mock messaging and
// returns the service with both mocks for inspection
func setupOrderService(t *testing.T) (*OrderService, *MockEventPublisher, *MockNotifier) {
	t.Helper()

	publisher := NewMockEventPublisher()
	publisher.SetAsMockForTesting()
	notifier := NewMockNotifier()
	notifier.SetAsMockForTesting()

	return InitOrderService(), publisher, notifier
}

func createTestCustomer(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "Customer",
		Address:   "12 Default Lane",
		Role:      models.RoleCustomer,
		Active:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}
	return &user
}

func createTestProvider(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "Provider",
		Role:      models.RoleProvider,
		Active:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test provider: %v", err)
	}
	return &user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return &category
}

func createTestService(t *testing.T, db *gorm.DB, name string, price string, providerID *uint) *models.Service {
	t.Helper()

	category := createTestCategory(t, db, "category-for-"+name)

	service := models.Service{
		Name:            name,
		Description:     "Test service",
		DurationMinutes: 60,
		CategoryID:      category.ID,
		ProviderID:      providerID,
		Active:          true,
	}
	if price != "" {
		p := decimal.RequireFromString(price)
		service.Price = &p
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	return &service
}

func futureTime() *time.Time {
	at := time.Now().Add(48 * time.Hour)
	return &at
}
