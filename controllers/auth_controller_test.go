package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

func TestRegister(t *testing.T) {
	db := setupTestDB(t)

	existing := createUser(t, db, "taken", models.RoleCustomer)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully register",
			requestBody: map[string]interface{}{
				"username":   "newcustomer",
				"email":      "newcustomer@example.com",
				"password":   "password123",
				"first_name": "New",
				"last_name":  "Customer",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.NotEmpty(t, data["token"])
				assert.Equal(t, "newcustomer", data["username"])
				assert.Equal(t, string(models.RoleCustomer), data["role"])

				// The issued token is valid and carries the new user
				claims, err := services.GetTokenService().ValidateToken(data["token"].(string))
				assert.NoError(t, err)
				assert.Equal(t, "newcustomer", claims.Username)
				assert.Equal(t, models.RoleCustomer, claims.Role)
			},
		},
		{
			name: "Duplicate username",
			requestBody: map[string]interface{}{
				"username":   existing.Username,
				"email":      "different@example.com",
				"password":   "password123",
				"first_name": "Dup",
				"last_name":  "User",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "CONFLICT",
		},
		{
			name: "Duplicate email",
			requestBody: map[string]interface{}{
				"username":   "differentuser",
				"email":      existing.Email,
				"password":   "password123",
				"first_name": "Dup",
				"last_name":  "User",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "CONFLICT",
		},
		{
			name: "Invalid email",
			requestBody: map[string]interface{}{
				"username":   "bademail",
				"email":      "not-an-email",
				"password":   "password123",
				"first_name": "Bad",
				"last_name":  "Email",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Password too short",
			requestBody: map[string]interface{}{
				"username":   "shortpass",
				"email":      "shortpass@example.com",
				"password":   "123",
				"first_name": "Short",
				"last_name":  "Pass",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/auth/register", Register)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)

	user := createUser(t, db, "loginuser", models.RoleCustomer)

	disabled := createUser(t, db, "disabled", models.RoleCustomer)
	db.Model(disabled).Update("active", false)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successful login",
			requestBody: map[string]interface{}{
				"username": user.Username,
				"password": "password123",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong password",
			requestBody: map[string]interface{}{
				"username": user.Username,
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name: "Unknown user",
			requestBody: map[string]interface{}{
				"username": "nobody",
				"password": "password123",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name: "Disabled account",
			requestBody: map[string]interface{}{
				"username": disabled.Username,
				"password": "password123",
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "ACCOUNT_DISABLED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/auth/login", Login)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				data := response["data"].(map[string]interface{})
				assert.NotEmpty(t, data["token"])
			}
		})
	}
}
