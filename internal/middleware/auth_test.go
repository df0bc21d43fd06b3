package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func webhookTokenRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/events", RequireWebhookToken(token), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireWebhookToken(t *testing.T) {
	r := webhookTokenRouter("secret")

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer secret", http.StatusOK},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/events", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRequireWebhookToken_EmptyConfiguredToken(t *testing.T) {
	r := webhookTokenRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("Authorization", "Bearer ")
	r.ServeHTTP(w, req)

	// An unset token never matches; the endpoint stays closed.
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
