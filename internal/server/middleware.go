package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// APIKeyHeader: API 키 인증 헤더 이름
const APIKeyHeader = "X-API-Key"

// LoggerMiddleware: slog 기반 HTTP 접속 로깅 미들웨어
// skipPaths는 "/exact", "*suffix", "prefix*" 형식을 지원한다.
func LoggerMiddleware(ctx context.Context, logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	exactSkip := make(map[string]bool)
	var prefixSkip, suffixSkip []string

	for _, pattern := range skipPaths {
		switch {
		case len(pattern) > 1 && pattern[0] == '*':
			suffixSkip = append(suffixSkip, pattern[1:])
		case len(pattern) > 1 && pattern[len(pattern)-1] == '*':
			prefixSkip = append(prefixSkip, pattern[:len(pattern)-1])
		default:
			exactSkip[pattern] = true
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if shouldSkipPath(path, exactSkip, prefixSkip, suffixSkip) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()

		// 정상 요청은 DEBUG, 4xx는 WARN, 5xx는 ERROR
		level := slog.LevelDebug
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}
		if !logger.Enabled(ctx, level) {
			return
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", truncateUA(c.Request.UserAgent())),
		}
		if latency >= 100*time.Millisecond {
			attrs = append(attrs, slog.Duration("latency", latency))
		}

		logger.LogAttrs(c.Request.Context(), level, "HTTP", attrs...)
	}
}

func shouldSkipPath(path string, exactSkip map[string]bool, prefixSkip, suffixSkip []string) bool {
	if exactSkip[path] {
		return true
	}
	for _, prefix := range prefixSkip {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range suffixSkip {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func truncateUA(ua string) string {
	const maxLen = 80
	if len(ua) > maxLen {
		return ua[:maxLen] + "..."
	}
	return ua
}

// APIKeyAuthMiddleware: X-API-Key 또는 Authorization: Bearer 헤더로 API 키를 검사한다.
// apiKey가 비어 있으면 인증을 건너뛴다.
func APIKeyAuthMiddleware(apiKey string) gin.HandlerFunc {
	apiKey = strings.TrimSpace(apiKey)

	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		provided := extractAPIKey(c)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "API key required",
			})
			return
		}

		// 타이밍 공격 방지를 위해 constant-time 비교 사용
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Error:   "FORBIDDEN",
				Message: "invalid API key",
			})
			return
		}
		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	if value := strings.TrimSpace(c.GetHeader(APIKeyHeader)); value != "" {
		return value
	}
	authValue := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authValue) > 7 && strings.EqualFold(authValue[:7], "bearer ") {
		return strings.TrimSpace(authValue[7:])
	}
	return ""
}

// SecurityHeadersMiddleware: 기본 보안 헤더를 추가한다.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// WrapH2C: 평문 HTTP/2(h2c) 요청도 처리하도록 핸들러를 감싼다.
func WrapH2C(handler http.Handler) http.Handler {
	return h2c.NewHandler(handler, &http2.Server{})
}
