package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nzbgetcom/webconf/pkg/audit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestLoggingSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLoggingMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		if c.GetString(RequestIDKey) == "" {
			t.Error("Expected request ID in context")
		}
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestAuditContext(t *testing.T) {
	r := gin.New()
	r.Use(gin.BasicAuth(gin.Accounts{"nzbget": "tegbzn6789"}), AuditContextMiddleware())

	var user string
	r.GET("/who", func(c *gin.Context) {
		user, _ = c.Request.Context().Value(audit.ContextKeyUsername).(string)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.SetBasicAuth("nzbget", "tegbzn6789")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}
	if user != "nzbget" {
		t.Errorf("Expected audit user nzbget, got %q", user)
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := NewIPRateLimiter(ctx, 60, 2)
	r := gin.New()
	r.Use(RateLimitWithHeadersMiddleware(limiter, 60))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("Unexpected status sequence %v", codes)
	}
	if limiter.Len() != 1 {
		t.Errorf("Expected one tracked client, got %d", limiter.Len())
	}
}

func TestContentTypeValidation(t *testing.T) {
	r := gin.New()
	r.Use(ContentTypeValidationMiddleware())
	r.PUT("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		contentType string
		want        int
	}{
		{"application/json; charset=utf-8", http.StatusOK},
		{"", http.StatusBadRequest},
		{"text/plain", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPut, "/x", strings.NewReader(`{"value":"1"}`))
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("Content-Type %q: expected %d, got %d", tt.contentType, tt.want, w.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware("/api/docs"))
	r.GET("/api/configs", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/docs/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/configs", nil))
	if got := w.Header().Get("Content-Security-Policy"); got != apiCSP {
		t.Errorf("Unexpected API CSP %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/docs/index.html", nil))
	if got := w.Header().Get("Content-Security-Policy"); got != docsCSP {
		t.Errorf("Unexpected docs CSP %q", got)
	}
}
