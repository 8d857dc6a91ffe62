package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func identityTestHandler(t *testing.T) (http.Handler, *string, *string) {
	t.Helper()
	var gotUserID, gotEmail string
	handler := IdentityMiddleware(testSecret, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := GetUserID(r.Context()); ok {
				gotUserID = id
			}
			if email, ok := GetUserEmail(r.Context()); ok {
				gotEmail = email
			}
			w.WriteHeader(http.StatusOK)
		}))
	return handler, &gotUserID, &gotEmail
}

func TestIdentityMiddlewareNoTokenPassesThroughAnonymously(t *testing.T) {
	handler, gotUserID, _ := identityTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 without token, got %d", rec.Code)
	}
	if *gotUserID != "" {
		t.Errorf("Expected no user id, got %q", *gotUserID)
	}
}

func TestIdentityMiddlewareValidTokenStashesClaims(t *testing.T) {
	handler, gotUserID, gotEmail := identityTestHandler(t)

	token := signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"email":   "user@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if *gotUserID != "user-1" {
		t.Errorf("Expected user id user-1, got %q", *gotUserID)
	}
	if *gotEmail != "user@example.com" {
		t.Errorf("Expected email in context, got %q", *gotEmail)
	}
}

func TestIdentityMiddlewareInvalidTokenIsRejected(t *testing.T) {
	handler, _, _ := identityTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for invalid token, got %d", rec.Code)
	}
}

func TestIdentityMiddlewareExpiredTokenIsRejected(t *testing.T) {
	handler, _, _ := identityTestHandler(t)

	token := signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for expired token, got %d", rec.Code)
	}
}

func TestIdentityMiddlewareMalformedHeaderIsRejected(t *testing.T) {
	handler, _, _ := identityTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for malformed header, got %d", rec.Code)
	}
}
