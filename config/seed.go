package config

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ella-marsh/handyhub-api/models"
)

// SeedDatabase inserts the initial admin account and default categories when
// the corresponding tables are empty. Safe to run on every startup.
func SeedDatabase(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if userCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := models.User{
			Username:  "admin",
			Email:     "admin@handyhub.local",
			Password:  string(hashed),
			FirstName: "Platform",
			LastName:  "Admin",
			Role:      models.RoleAdmin,
			Active:    true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		Log.Info("seeded default admin account", zap.String("username", admin.Username))
	}

	var categoryCount int64
	if err := db.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}

	if categoryCount == 0 {
		categories := []models.Category{
			{Name: "Cleaning", Description: "Home and office cleaning", Icon: "broom"},
			{Name: "Repairs", Description: "General repairs and handyman work", Icon: "wrench"},
			{Name: "Plumbing", Description: "Plumbing installation and fixes", Icon: "pipe"},
			{Name: "Electrical", Description: "Electrical installation and fixes", Icon: "bolt"},
			{Name: "Gardening", Description: "Garden and outdoor maintenance", Icon: "leaf"},
		}
		if err := db.Create(&categories).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		Log.Info("seeded default categories", zap.Int("count", len(categories)))
	}

	return nil
}
