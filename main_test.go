package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

func setupIntegrationServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Service{},
		&models.Order{},
		&models.Review{},
		&models.Notification{},
	))
	config.SetDB(db)
	require.NoError(t, config.SeedDatabase(db))

	cfg := &config.Config{
		Port:      "8080",
		GoEnv:     "test",
		JWTSecret: "integration-secret",
	}
	config.SetConfig(cfg)

	services.InitTokenService(cfg.JWTSecret)
	services.NewMockEventPublisher().SetAsMockForTesting()
	services.InitNotifier(services.InitNotificationHub())
	services.InitOrderService()
	services.InitStatsService()
	services.SetImageService(nil)

	return setupRouter(cfg)
}

type apiResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   map[string]interface{} `json:"error"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response apiResponse
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func TestOrderLifecycleEndToEnd(t *testing.T) {
	router := setupIntegrationServer(t)

	// The seeded admin logs in
	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": "admin",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := resp.Data["token"].(string)

	// Admin creates a provider account
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/admin/users", adminToken, map[string]interface{}{
		"username":   "fixit",
		"email":      "fixit@example.com",
		"password":   "provider123",
		"first_name": "Fix",
		"last_name":  "It",
		"role":       "PROVIDER",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": "fixit",
		"password": "provider123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	providerToken := resp.Data["token"].(string)

	// The provider lists a priced service in a seeded category
	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []models.Category
	require.NoError(t, config.GetDB().Find(&categories).Error)
	require.NotEmpty(t, categories)

	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/services", providerToken, map[string]interface{}{
		"name":             "Boiler Service",
		"description":      "Annual boiler check",
		"price":            "500.00",
		"duration_minutes": 90,
		"category_id":      categories[0].ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	serviceID := resp.Data["id"].(float64)

	// A customer registers and places an order
	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":   "homeowner",
		"email":      "homeowner@example.com",
		"password":   "customer123",
		"first_name": "Home",
		"last_name":  "Owner",
		"address":    "1 Front Street",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	customerToken := resp.Data["token"].(string)

	scheduledAt := time.Now().Add(72 * time.Hour).Format(time.RFC3339)
	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"service_id":   serviceID,
		"scheduled_at": scheduledAt,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := resp.Data["id"].(float64)
	assert.Equal(t, string(models.StatusPending), resp.Data["status"])
	assert.Equal(t, "500.00", resp.Data["total_price"])
	assert.Equal(t, "1 Front Street", resp.Data["address"])

	// The provider walks the order through to completion
	for _, status := range []string{"CONFIRMED", "IN_PROGRESS", "COMPLETED"} {
		w, resp = doJSON(t, router, http.MethodPut,
			fmt.Sprintf("/api/v1/orders/%.0f/status", orderID), providerToken,
			map[string]interface{}{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
		assert.Equal(t, status, resp.Data["status"])
	}
	assert.NotEmpty(t, resp.Data["completed_at"])

	// The customer reviews the completed order
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/reviews", customerToken, map[string]interface{}{
		"order_id": orderID,
		"rating":   5,
		"comment":  "On time and thorough",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// A second review of the same order is refused
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/reviews", customerToken, map[string]interface{}{
		"order_id": orderID,
		"rating":   1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Provider stats reflect the completed order
	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/orders/provider/stats", providerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["total_orders"])
	assert.Equal(t, float64(1), resp.Data["completed_orders"])
	assert.Equal(t, "500.00", resp.Data["total_revenue"])
	assert.Equal(t, "500.00", resp.Data["average_order_value"])

	// Platform stats count every actor
	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), resp.Data["total_users"])
	assert.Equal(t, float64(1), resp.Data["total_orders"])
	assert.Equal(t, "500.00", resp.Data["total_revenue"])

	// The customer cannot reach the admin surface
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unauthenticated requests are rejected
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/orders/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := setupIntegrationServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
