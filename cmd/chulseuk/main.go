// Package main: 출석부 API 서버의 엔트리포인트입니다.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tem1004-eng/chulseuk-7/internal/bootstrap"
	"github.com/tem1004-eng/chulseuk-7/internal/config"
	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/health"
	"github.com/tem1004-eng/chulseuk-7/internal/logging"
	"github.com/tem1004-eng/chulseuk-7/internal/metrics"
	"github.com/tem1004-eng/chulseuk-7/internal/notify"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
	"github.com/tem1004-eng/chulseuk-7/internal/server"
)

// Version: 빌드 시 ldflags로 주입됨
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("chulseuk_exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	health.Init(Version)

	cfg, err := config.Load()
	if err != nil {
		logging.NewConsoleLogger("info").Error("config_load_failed", slog.Any("error", err))
		return err
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		// 파일 로깅 실패 시 stdout 로거 사용
		logger = logging.NewConsoleLogger(cfg.Log.Level)
		logger.Warn("file_logging_failed", slog.Any("error", err))
	}

	provider, err := bootstrap.NewTelemetry(ctx, cfg, Version)
	if err != nil {
		logger.Warn("telemetry_init_failed", slog.Any("error", err))
	}

	m := metrics.New()
	store, closeStore, err := bootstrap.OpenRoster(ctx, cfg, logger, m)
	if err != nil {
		logger.Error("roster_open_failed", slog.Any("error", err))
		return err
	}

	selection := roster.NewSelection()
	store.OnDelete(selection.Remove)

	routerOpts := server.Options{
		Store:            store,
		Selection:        selection,
		Notifier:         notify.NewNotifier(notify.LogDispatcher{Logger: logger}),
		Metrics:          m,
		Logger:           logger,
		Clock:            domain.NowKST,
		PageSize:         cfg.Roster.PageSize,
		MarkingWeekday:   cfg.Roster.MarkingWeekday,
		APIKey:           cfg.Server.APIKey,
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		TelemetryEnabled: provider != nil && provider.IsEnabled(),
		ServiceName:      cfg.Telemetry.ServiceName,
	}
	if sharer := bootstrap.NewIrisSharer(cfg, logger); sharer != nil {
		routerOpts.Sharer = sharer
		logger.Info("iris_share_enabled", slog.String("room", cfg.Iris.Room))
	}

	router, err := server.NewRouter(ctx, routerOpts)
	if err != nil {
		closeStore()
		logger.Error("router_init_failed", slog.Any("error", err))
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           server.WrapH2C(router),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	app := bootstrap.NewServerApp("chulseuk", logger, httpServer, shutdownTimeout).
		OnShutdown("roster_store", func(context.Context) error {
			closeStore()
			return nil
		})
	if provider != nil {
		app.OnShutdown("telemetry", provider.Shutdown)
	}

	return app.Run(ctx)
}
