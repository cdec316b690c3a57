package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/middleware"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/testutil"
	"github.com/labstack/echo/v4"
)

// setupAuthContext injects a resolved account into the request context the
// way the auth middleware does.
func setupAuthContext(c echo.Context, user *domain.User) {
	ctx := context.WithValue(c.Request().Context(), middleware.Auth0IDKey, user.Auth0ID)
	ctx = context.WithValue(ctx, middleware.UserKey, user)
	c.SetRequest(c.Request().WithContext(ctx))
}

// setupClaimsContext injects validated JWT claims without a resolved account,
// matching the state of a first-login callback request.
func setupClaimsContext(c echo.Context, auth0ID, email, name string) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: auth0ID},
		CustomClaims:     &middleware.CustomClaims{Email: email, Name: name},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func testAdvisor() *domain.User {
	name := "Test Advisor"
	return &domain.User{
		ID:      uuid.New(),
		Auth0ID: "auth0|advisor",
		Email:   "advisor@example.com",
		Name:    &name,
		Role:    domain.RoleAdvisor,
	}
}

func TestCallback_ProvisionsUser(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewAuthHandler(service.NewAuthService(userRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupClaimsContext(c, "auth0|new-user", "new@example.com", "New User")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Email != "new@example.com" {
		t.Errorf("Expected email new@example.com, got %s", response.Email)
	}
	if response.Role != domain.RoleAdvisor {
		t.Errorf("Expected role advisor, got %s", response.Role)
	}
	if response.Name == nil || *response.Name != "New User" {
		t.Errorf("Expected name 'New User', got %v", response.Name)
	}
}

func TestCallback_MissingEmail(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewAuthHandler(service.NewAuthService(userRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupClaimsContext(c, "auth0|no-email", "", "")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCallback_NoAuthContext(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewAuthHandler(service.NewAuthService(userRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewAuthHandler(service.NewAuthService(userRepo))

	user := testAdvisor()
	userRepo.AddUser(user)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user)

	err := handler.Me(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.ID != user.ID.String() {
		t.Errorf("Expected ID %s, got %s", user.ID, response.ID)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewAuthHandler(service.NewAuthService(userRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Me(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewAuthHandler(service.NewAuthService(userRepo))

	user := testAdvisor()
	userRepo.AddUser(user)

	reqBody := `{"name": "Renamed Advisor"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user)

	err := handler.UpdateProfile(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Name == nil || *response.Name != "Renamed Advisor" {
		t.Errorf("Expected name 'Renamed Advisor', got %v", response.Name)
	}
}

func TestUpdateProfile_EmptyName(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewAuthHandler(service.NewAuthService(userRepo))

	user := testAdvisor()
	userRepo.AddUser(user)

	reqBody := `{"name": ""}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user)

	err := handler.UpdateProfile(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestLogout_Success(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewAuthHandler(service.NewAuthService(userRepo))

	user := testAdvisor()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user)

	err := handler.Logout(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}
