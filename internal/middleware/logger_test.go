package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"resumeflow/internal/middleware"
)

func requestIDEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextKeyRequestID))
	})
	return r
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "abc-123")
	requestIDEngine().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRequestID_GeneratesWhenMissingOrOversized(t *testing.T) {
	for _, given := range []string{"", strings.Repeat("x", 200)} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
		if given != "" {
			req.Header.Set("X-Request-ID", given)
		}
		requestIDEngine().ServeHTTP(w, req)

		got := w.Header().Get("X-Request-ID")
		assert.Len(t, got, 36)
		assert.Equal(t, got, w.Body.String())
	}
}
