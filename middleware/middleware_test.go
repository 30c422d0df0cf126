package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/secure", chain...)
	return r
}

func get(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header = header
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter(ValidateToken)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, http.Header{}).Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		h := http.Header{"Authorization": {"Bearer not.a.token"}}
		assert.Equal(t, http.StatusUnauthorized, get(r, h).Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"user_id": "u1"})
		h := http.Header{"Authorization": {"Bearer " + token}}
		assert.Equal(t, http.StatusUnauthorized, get(r, h).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": "u1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		h := http.Header{"Authorization": {"Bearer " + token}}
		assert.Equal(t, http.StatusUnauthorized, get(r, h).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": "u1",
			"role":    "user",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		h := http.Header{"Authorization": {"Bearer " + token}}
		w := get(r, h)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u1")
	})
}

func TestRequireUserRejectsGuests(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter(ValidateToken, RequireUser)

	guest := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "guest_abc",
		"role":    "guest",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	h := http.Header{"Authorization": {"Bearer " + guest}}
	assert.Equal(t, http.StatusForbidden, get(r, h).Code)

	user := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u1",
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	h = http.Header{"Authorization": {"Bearer " + user}}
	assert.Equal(t, http.StatusOK, get(r, h).Code)
}

func TestValidateAPIKey(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "admin-key")
	r := protectedRouter(ValidateAPIKey)

	assert.Equal(t, http.StatusUnauthorized, get(r, http.Header{}).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.Header{"X-Api-Key": {"wrong"}}).Code)
	assert.Equal(t, http.StatusOK, get(r, http.Header{"X-Api-Key": {"admin-key"}}).Code)
}

func TestWebhookAuth(t *testing.T) {
	t.Setenv("FLW_WEBHOOK_SECRET", "hook-secret")
	os.Unsetenv("FLW_MODE")
	r := protectedRouter(WebhookAuth())

	assert.Equal(t, http.StatusForbidden, get(r, http.Header{}).Code)
	assert.Equal(t, http.StatusForbidden, get(r, http.Header{"Verif-Hash": {"wrong"}}).Code)
	assert.Equal(t, http.StatusOK, get(r, http.Header{"Verif-Hash": {"hook-secret"}}).Code)
}

func TestWebhookAuthSandboxSkips(t *testing.T) {
	t.Setenv("FLW_WEBHOOK_SECRET", "hook-secret")
	t.Setenv("FLW_MODE", "sandbox")
	r := protectedRouter(WebhookAuth())

	assert.Equal(t, http.StatusOK, get(r, http.Header{}).Code)
}
