package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

func TestCreateServiceEndpoint(t *testing.T) {
	db := setupTestDB(t)

	provider := createUser(t, db, "svc-provider", models.RoleProvider)
	otherProvider := createUser(t, db, "svc-other-provider", models.RoleProvider)
	admin := createUser(t, db, "svc-admin", models.RoleAdmin)
	category := createCategory(t, db, "Decorating")

	t.Run("Provider creates a self-assigned service", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/services",
			mockAuthMiddleware(provider.ID, models.RoleProvider),
			CreateService,
		)

		body, _ := json.Marshal(map[string]interface{}{
			"name":             "Wallpapering",
			"price":            "180.00",
			"duration_minutes": 120,
			"category_id":      category.ID,
			// A provider cannot assign someone else, this is ignored
			"provider_id": otherProvider.ID,
		})
		req, _ := http.NewRequest(http.MethodPost, "/services", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Wallpapering", data["name"])
		assert.Equal(t, "180.00", data["price"])
		assert.Equal(t, "Decorating", data["category_name"])
		assert.Equal(t, float64(provider.ID), data["provider_id"])
	})

	t.Run("Admin assigns any provider", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/services",
			mockAuthMiddleware(admin.ID, models.RoleAdmin),
			CreateService,
		)

		body, _ := json.Marshal(map[string]interface{}{
			"name":        "Ceiling Painting",
			"price":       "95.00",
			"category_id": category.ID,
			"provider_id": otherProvider.ID,
		})
		req, _ := http.NewRequest(http.MethodPost, "/services", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(otherProvider.ID), data["provider_id"])
	})

	t.Run("Unknown category", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/services",
			mockAuthMiddleware(provider.ID, models.RoleProvider),
			CreateService,
		)

		body, _ := json.Marshal(map[string]interface{}{
			"name":        "Orphan Service",
			"category_id": 9999,
		})
		req, _ := http.NewRequest(http.MethodPost, "/services", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteServiceEndpoint(t *testing.T) {
	db := setupTestDB(t)

	provider := createUser(t, db, "del-svc-provider", models.RoleProvider)
	otherProvider := createUser(t, db, "del-svc-other", models.RoleProvider)
	category := createCategory(t, db, "Tiling")
	service := createService(t, db, "Bathroom Tiling", "650.00", category.ID, &provider.ID)

	t.Run("Other provider is rejected", func(t *testing.T) {
		router := setupTestRouter()
		router.DELETE("/services/:id",
			mockAuthMiddleware(otherProvider.ID, models.RoleProvider),
			DeleteService,
		)

		req, _ := http.NewRequest(http.MethodDelete, "/services/"+itoa(service.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Owner soft-deletes", func(t *testing.T) {
		router := setupTestRouter()
		router.DELETE("/services/:id",
			mockAuthMiddleware(provider.ID, models.RoleProvider),
			DeleteService,
		)

		req, _ := http.NewRequest(http.MethodDelete, "/services/"+itoa(service.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		// The row survives with the active flag cleared
		var stored models.Service
		assert.NoError(t, db.First(&stored, service.ID).Error)
		assert.False(t, stored.Active)
	})
}

func TestUploadServiceImageEndpoint(t *testing.T) {
	db := setupTestDB(t)

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()

	provider := createUser(t, db, "img-provider", models.RoleProvider)
	category := createCategory(t, db, "Windows")
	service := createService(t, db, "Window Fitting", "420.00", category.ID, &provider.ID)

	makeUpload := func(t *testing.T, filename string) (*bytes.Buffer, string) {
		t.Helper()
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())
		return buf, writer.FormDataContentType()
	}

	router := setupTestRouter()
	router.POST("/services/:id/image",
		mockAuthMiddleware(provider.ID, models.RoleProvider),
		UploadServiceImage,
	)

	t.Run("Successful upload", func(t *testing.T) {
		buf, contentType := makeUpload(t, "storefront.png")
		req, _ := http.NewRequest(http.MethodPost, "/services/"+itoa(service.ID)+"/image", buf)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.NotEmpty(t, data["image_url"])

		var stored models.Service
		assert.NoError(t, db.First(&stored, service.ID).Error)
		assert.True(t, mockImages.HasImage(stored.ImageKey))
	})

	t.Run("Replacement deletes the old image", func(t *testing.T) {
		var before models.Service
		require.NoError(t, db.First(&before, service.ID).Error)
		oldKey := before.ImageKey

		buf, contentType := makeUpload(t, "replacement.jpg")
		req, _ := http.NewRequest(http.MethodPost, "/services/"+itoa(service.ID)+"/image", buf)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, mockImages.HasImage(oldKey))
	})

	t.Run("Rejected file format", func(t *testing.T) {
		buf, contentType := makeUpload(t, "malware.exe")
		req, _ := http.NewRequest(http.MethodPost, "/services/"+itoa(service.ID)+"/image", buf)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
