package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestShouldSkipPath(t *testing.T) {
	exact := map[string]bool{"/health": true}
	prefix := []string{"/static/"}
	suffix := []string{".ico"}

	tests := map[string]bool{
		"/health":         true,
		"/static/app.js":  true,
		"/favicon.ico":    true,
		"/api/roster":     false,
		"/health/details": false,
	}
	for path, want := range tests {
		if got := shouldSkipPath(path, exact, prefix, suffix); got != want {
			t.Errorf("shouldSkipPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLoggerMiddleware_LevelsByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	router := gin.New()
	router.Use(LoggerMiddleware(context.Background(), logger, "/health", "/static/*"))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/static/x", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/static/x"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := buf.String()
	if strings.Contains(out, "path=/ok") {
		t.Error("2xx logged above debug level")
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "path=/missing") {
		t.Errorf("expected WARN for 404, got %q", out)
	}
	if strings.Contains(out, "/static/x") {
		t.Error("skipped path was logged")
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("missing security headers: %v", rec.Header())
	}
}

func TestWrapH2C(t *testing.T) {
	handler := WrapH2C(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}
