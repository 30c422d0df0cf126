package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AaronTech112/Soft-Boy-Crowm/logging"
)

// WebhookAuth verifies the gateway's verif-hash header against the
// configured secret. Skipped in sandbox/dev mode so local gateways can
// post unsigned events.
func WebhookAuth() gin.HandlerFunc {
	secret := os.Getenv("FLW_WEBHOOK_SECRET")
	if secret == "" {
		panic("FLW_WEBHOOK_SECRET is not set")
	}

	mode := strings.ToLower(os.Getenv("FLW_MODE"))

	return func(c *gin.Context) {
		if mode == "sandbox" || mode == "dev" {
			logging.From(c).Warn("sandbox/dev mode: skipping webhook signature verification")
			c.Next()
			return
		}

		provided := c.GetHeader("verif-hash")
		if provided == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing verif-hash header"})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
