package middleware

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

const signingKey = "test-signing-key"

func signToken(t *testing.T, key string, expiresAt time.Time) string {
	t.Helper()

	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:  7,
		Address: "0xbeef",
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)

	return signed
}

func setupProtectedRoute() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", NewAuthenticator(signingKey).VerifyJWT(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint(ContextKeyUserID),
			"address": c.GetString(ContextKeyAddress),
		})
	})

	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVerifyJWT(t *testing.T) {
	router := setupProtectedRoute()

	token := signToken(t, signingKey, time.Now().Add(time.Hour))
	w := doRequest(router, "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"address":"0xbeef"`)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestVerifyJWTRejections(t *testing.T) {
	router := setupProtectedRoute()

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Bearer not-a-token").Code)

	expired := signToken(t, signingKey, time.Now().Add(-time.Hour))
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Bearer "+expired).Code)

	wrongKey := signToken(t, "other-key", time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Bearer "+wrongKey).Code)
}
