package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task-management-system/backend/internal/handlers"
	"task-management-system/backend/internal/middleware"
	"task-management-system/backend/internal/models"
	"task-management-system/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MockAuthService struct {
	user *models.User
}

func (m *MockAuthService) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	if m.user == nil || m.user.Username != username || password != "correct" {
		return nil, services.ErrInvalidCredentials
	}
	return m.user, nil
}

func (m *MockAuthService) GenerateToken(user *models.User) (string, error) {
	return "signed-token", nil
}

func setupAuthHandler() (*gin.Engine, *MockAuthService) {
	gin.SetMode(gin.TestMode)

	mock := &MockAuthService{
		user: &models.User{ID: 1, Username: "admin", Role: "Admin"},
	}
	handler := handlers.NewAuthHandler(mock, time.Hour)

	router := gin.New()
	router.POST("/login", handler.Login)
	router.POST("/logout", handler.Logout)
	return router, mock
}

func TestLogin_Success(t *testing.T) {
	router, _ := setupAuthHandler()

	payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "correct"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp handlers.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Token != "signed-token" || resp.Role != "Admin" {
		t.Errorf("Unexpected login response: %+v", resp)
	}

	cookieFound := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AuthTokenCookie {
			cookieFound = true
			if !cookie.HttpOnly {
				t.Error("Auth cookie must be HttpOnly")
			}
			if cookie.Value != "signed-token" {
				t.Errorf("Expected cookie to carry the token, got %q", cookie.Value)
			}
		}
	}
	if !cookieFound {
		t.Error("Expected the auth cookie to be set")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _ := setupAuthHandler()

	payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router, _ := setupAuthHandler()

	payload, _ := json.Marshal(map[string]string{"username": "admin"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	router, _ := setupAuthHandler()

	req, _ := http.NewRequest("POST", "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AuthTokenCookie && cookie.MaxAge >= 0 {
			t.Error("Expected the auth cookie to be expired")
		}
	}
}
