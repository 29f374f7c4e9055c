package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("secret", time.Hour)
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateToken("admin@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTService_Rejects(t *testing.T) {
	svc, err := NewJWTService("secret", time.Hour)
	require.NoError(t, err)

	other, err := NewJWTService("another", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.GenerateToken("admin@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, _, err := svc.GenerateToken("admin@example.com")
	require.NoError(t, err)
	svc.now = time.Now

	_, err = svc.ValidateToken(expired)
	require.ErrorIs(t, err, ErrExpiredToken)

	// Token válido, mas sem o papel de administrador
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Email: "x@example.com",
		Role:  "guest",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	guest, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(guest)
	require.ErrorIs(t, err, ErrInvalidClaims)
}

func TestNewJWTService_MissingKey(t *testing.T) {
	_, err := NewJWTService("", time.Hour)
	require.ErrorIs(t, err, ErrMissingJWTKey)
}

func TestAdminAuthenticator(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	a := NewAdminAuthenticator("Admin@Example.com", hash)

	require.NoError(t, a.Authenticate(" admin@example.com ", "s3cret"))
	require.ErrorIs(t, a.Authenticate("admin@example.com", "wrong"), ErrInvalidCredentials)
	require.ErrorIs(t, a.Authenticate("other@example.com", "s3cret"), ErrInvalidCredentials)
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, err := NewJWTService("secret", time.Hour)
	require.NoError(t, err)
	token, _, err := svc.GenerateToken("admin@example.com")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/admin", JWTAuthMiddleware(svc), func(c *gin.Context) {
		c.String(http.StatusOK, GetCurrentAdmin(c))
	})
	disabled := gin.New()
	disabled.GET("/admin", JWTAuthMiddleware(nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		engine *gin.Engine
		header string
		status int
	}{
		{"valid token", router, "Bearer " + token, http.StatusOK},
		{"missing header", router, "", http.StatusUnauthorized},
		{"wrong scheme", router, "Basic abc", http.StatusUnauthorized},
		{"bad token", router, "Bearer abc", http.StatusUnauthorized},
		{"admin disabled", disabled, "Bearer " + token, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK && tt.engine == router {
				assert.Equal(t, "admin@example.com", rec.Body.String())
			}
		})
	}
}
