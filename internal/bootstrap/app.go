// Package bootstrap: 설정으로부터 구성 요소를 만들고 HTTP 서버를 실행/종료합니다.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// Cleanup: 서버 종료 후 실행할 정리 작업 (트레이싱 flush, 저장소 연결 해제 등)
type Cleanup struct {
	Name string
	Run  func(ctx context.Context) error
}

// ServerApp: HTTP 서버를 포함하는 애플리케이션 실행 단위입니다.
type ServerApp struct {
	Name            string
	Logger          *slog.Logger
	Server          *http.Server
	ShutdownTimeout time.Duration

	cleanups []Cleanup
}

// NewServerApp: 새로운 ServerApp 인스턴스를 생성합니다.
func NewServerApp(
	name string,
	logger *slog.Logger,
	server *http.Server,
	shutdownTimeout time.Duration,
) *ServerApp {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServerApp{
		Name:            name,
		Logger:          logger,
		Server:          server,
		ShutdownTimeout: shutdownTimeout,
	}
}

// OnShutdown: 서버 종료 후 실행할 정리 작업을 등록합니다. 등록 역순으로 실행된다.
func (a *ServerApp) OnShutdown(name string, fn func(ctx context.Context) error) *ServerApp {
	a.cleanups = append(a.cleanups, Cleanup{Name: name, Run: fn})
	return a
}

// Run: 애플리케이션을 실행합니다.
// OS 시그널(SIGINT, SIGTERM) 또는 ctx 취소 시 우아하게 종료합니다.
func (a *ServerApp) Run(ctx context.Context) error {
	if a == nil {
		return nil
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)

	a.Logger.Info("server_start",
		slog.String("name", a.Name),
		slog.String("addr", a.Server.Addr),
	)

	g.Go(func() error {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutdown_signal_received", slog.String("name", a.Name))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("server_shutdown_failed", slog.Any("error", err))
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		a.Logger.Info("server_stopped", slog.String("name", a.Name))
		return nil
	})

	err := g.Wait()
	a.runCleanups()
	if err != nil {
		return fmt.Errorf("wait for goroutines: %w", err)
	}
	return nil
}

func (a *ServerApp) runCleanups() {
	ctx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()

	for i := len(a.cleanups) - 1; i >= 0; i-- {
		c := a.cleanups[i]
		if err := c.Run(ctx); err != nil {
			a.Logger.Warn("cleanup_failed", slog.String("name", c.Name), slog.Any("error", err))
		}
	}
}
