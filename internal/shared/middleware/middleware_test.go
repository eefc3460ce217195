package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickshow/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func claimsFor(sub, role string, exp time.Time) Claims {
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuthWithConfig(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	r.GET("/admin", JWTAuthWithConfig(cfg), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: testSecret, AdminUserIDs: []string{"user_boss"}}}
	router := newRouter(cfg)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Token abc", http.StatusUnauthorized},
		{"bad signature", "/me", "Bearer " + signToken(t, "other", claimsFor("user_1", "", future)), http.StatusUnauthorized},
		{"expired", "/me", "Bearer " + signToken(t, testSecret, claimsFor("user_1", "", time.Now().Add(-time.Minute))), http.StatusUnauthorized},
		{"no subject", "/me", "Bearer " + signToken(t, testSecret, claimsFor("", "", future)), http.StatusUnauthorized},
		{"valid", "/me", "Bearer " + signToken(t, testSecret, claimsFor("user_1", "", future)), http.StatusOK},
		{"user on admin route", "/admin", "Bearer " + signToken(t, testSecret, claimsFor("user_1", "", future)), http.StatusForbidden},
		{"admin by role claim", "/admin", "Bearer " + signToken(t, testSecret, claimsFor("user_1", "admin", future)), http.StatusNoContent},
		{"admin by allow list", "/admin", "Bearer " + signToken(t, testSecret, claimsFor("user_boss", "", future)), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("code = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}
