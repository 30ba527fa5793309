// Package server: 출석부 HTTP API(gin)를 제공합니다.
package server

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/health"
	"github.com/tem1004-eng/chulseuk-7/internal/metrics"
	"github.com/tem1004-eng/chulseuk-7/internal/notify"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

// Sharer: 내보낸 명단을 외부 채널로 보내는 수단 (Iris 등)
type Sharer interface {
	Share(ctx context.Context, fileName string, payload []byte) error
}

// Options: 라우터 구성 요소
type Options struct {
	Store     *roster.Store
	Selection *roster.Selection
	Notifier  *notify.Notifier
	Sharer    Sharer // nil이면 공유 비활성화
	Metrics   *metrics.Metrics // nil이면 새 레지스트리 사용
	Logger    *slog.Logger
	Clock     domain.Clock

	PageSize       int
	MarkingWeekday time.Weekday

	APIKey           string
	CORSAllowOrigins []string

	TelemetryEnabled bool
	ServiceName      string
}

// NewRouter: 미들웨어와 라우트가 등록된 gin 엔진을 생성합니다.
func NewRouter(ctx context.Context, opts Options) (*gin.Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("router requires a roster store")
	}
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	handler := newHandler(opts)
	logger := handler.logger

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// OTel 미들웨어는 가장 앞에 배치
	if opts.TelemetryEnabled {
		serviceName := opts.ServiceName
		if serviceName == "" {
			serviceName = "chulseuk"
		}
		router.Use(otelgin.Middleware(serviceName))
		logger.Info("otel_http_middleware_enabled", slog.String("service", serviceName))
	}

	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(ctx, logger,
		"/health",
		"/metrics",
	))
	router.Use(cors.New(newCORSConfig(opts.CORSAllowOrigins)))
	router.Use(SecurityHeadersMiddleware())
	router.Use(newGzipMiddleware())

	registerHealthRoutes(router, handler)
	registerRosterRoutes(router, opts.APIKey, handler)

	if opts.APIKey != "" {
		logger.Info("api_key_auth_enabled")
	} else {
		logger.Warn("api_key_auth_disabled", slog.String("reason", "API_KEY not set"))
	}

	return router, nil
}

func newCORSConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", APIKeyHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	return corsConfig
}

func newGzipMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithCustomShouldCompressFn(func(c *gin.Context) bool {
		// Health check, 메트릭은 압축 제외
		switch c.Request.URL.Path {
		case "/health", "/metrics":
			return false
		}
		return true
	}))
}

func registerHealthRoutes(router *gin.Engine, h *Handler) {
	// Health check 엔드포인트 (버전/uptime/저장 상태 포함)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, health.Get(h.store.Len(), h.store.LastPersistError()))
	})

	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
}

func registerRosterRoutes(router *gin.Engine, apiKey string, h *Handler) {
	api := router.Group("/api/roster")
	api.Use(APIKeyAuthMiddleware(apiKey))
	{
		api.GET("/positions", h.ListPositions)

		api.GET("/members", h.ListMembers)
		api.POST("/members", h.AddMember)
		api.GET("/members/:id", h.GetMember)
		api.PUT("/members/:id", h.EditMember)
		api.DELETE("/members/:id", h.DeleteMember)
		api.PUT("/members/:id/attendance/:date", h.SetAttendance)
		api.GET("/members/:id/stats", h.MemberStats)

		api.GET("/counts", h.Counts)
		api.GET("/calendar", h.Calendar)

		api.GET("/export", h.Export)
		api.POST("/import", h.Import)

		api.GET("/selection", h.GetSelection)
		api.PUT("/selection", h.ReplaceSelection)
		api.DELETE("/selection", h.ClearSelection)
		api.POST("/selection/:id", h.ToggleSelection)

		api.POST("/notify", h.Notify)
	}
}
