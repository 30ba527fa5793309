package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tem1004-eng/chulseuk-7/internal/config"
	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/httpclient"
	"github.com/tem1004-eng/chulseuk-7/internal/logging"
	"github.com/tem1004-eng/chulseuk-7/internal/notify"
	"github.com/tem1004-eng/chulseuk-7/internal/persistence"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
	"github.com/tem1004-eng/chulseuk-7/internal/telemetry"
	"github.com/tem1004-eng/chulseuk-7/internal/valkeyx"
)

// NewLogger: 로그 설정으로 로거를 생성합니다.
func NewLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(logging.Config{
		Level:      cfg.Log.Level,
		Dir:        cfg.Log.Dir,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}, cfg.Telemetry.Enabled)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// NewTelemetry: 트레이싱 provider를 초기화합니다. 비활성 설정이면 no-op.
func NewTelemetry(ctx context.Context, cfg *config.Config, version string) (*telemetry.Provider, error) {
	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Telemetry.Endpoint,
		OTLPInsecure:   true,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	return provider, nil
}

// PersistenceSettings: 설정을 저장소 연결 정보로 변환합니다.
func PersistenceSettings(cfg *config.Config) persistence.Settings {
	return persistence.Settings{
		Backend: cfg.Persist.Backend,
		Key:     cfg.Persist.Key,
		Valkey: valkeyx.Config{
			Addr:     cfg.Valkey.Addr(),
			Password: cfg.Valkey.Password,
		},
		SQLitePath: cfg.Persist.SQLitePath,
	}
}

// OpenRoster: 저장소 백엔드를 연결하고 저장된 명단으로 Store를 만듭니다.
// 반환된 closer는 종료 시 한 번 호출해야 한다.
func OpenRoster(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	recorder roster.Recorder,
) (*roster.Store, func(), error) {
	backend, closeBackend, err := persistence.Open(ctx, PersistenceSettings(cfg), logger)
	if err != nil {
		return nil, nil, err
	}

	store, err := roster.Open(ctx, backend, roster.Options{
		Logger:         logger,
		Recorder:       recorder,
		Clock:          domain.NowKST,
		PersistTimeout: cfg.Persist.Timeout,
	})
	if err != nil {
		closeBackend()
		return nil, nil, fmt.Errorf("open roster: %w", err)
	}

	logger.Info("roster_opened",
		slog.String("backend", backendName(cfg.Persist.Backend)),
		slog.Int("members", store.Len()),
	)
	return store, closeBackend, nil
}

func backendName(backend string) string {
	if strings.TrimSpace(backend) == "" {
		return persistence.BackendMemory
	}
	return backend
}

// NewIrisSharer: Iris 설정이 있으면 공유 클라이언트를 만들고, 없으면 nil을 반환합니다.
func NewIrisSharer(cfg *config.Config, logger *slog.Logger) *notify.IrisSharer {
	if !cfg.Iris.Enabled() {
		return nil
	}
	client := httpclient.New(httpclient.Config{
		Timeout:      cfg.Iris.Timeout,
		HTTP2Enabled: cfg.Iris.H2C,
		Tracing:      cfg.Telemetry.Enabled,
	})
	return notify.NewIrisSharer(client, cfg.Iris.BaseURL, cfg.Iris.Room, logger)
}
