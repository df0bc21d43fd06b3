package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/example/standup-bot/internal/errors"
)

// RequireWebhookToken checks the bearer token the transport attaches to
// every webhook call. There is no login session anywhere: each request
// authenticates on its own, all other state lives in the store.
func RequireWebhookToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		bearer, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" ||
			subtle.ConstantTimeCompare([]byte(bearer), []byte(token)) != 1 {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
