package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nzbgetcom/webconf/pkg/config"
	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/snapshot"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("get Foo: %w", schema.ErrUnknownOption), http.StatusNotFound},
		{fmt.Errorf("delete 3: %w", schema.ErrNoInstance), http.StatusNotFound},
		{fmt.Errorf("set Port: %w", schema.ErrInvalidValue), http.StatusBadRequest},
		{schema.ErrNotRepeatable, http.StatusBadRequest},
		{fmt.Errorf("section X: %w", config.ErrUnknownSection), http.StatusNotFound},
		{fmt.Errorf("%w: 20240101-000000-000-x", snapshot.ErrNotFound), http.StatusNotFound},
		{config.ErrNoChanges, http.StatusConflict},
		{config.ErrNotLoaded, http.StatusServiceUnavailable},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got, _ := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/options/Port", nil)

	Respond(c, fmt.Errorf("Port expects a number: %w", schema.ErrInvalidValue))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Port expects a number") {
		t.Errorf("Expected validation details, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/commit", nil)

	Respond(c, fmt.Errorf("write /etc/secret: permission denied"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "/etc/secret") {
		t.Errorf("Internal details leaked: %s", w.Body.String())
	}
}
