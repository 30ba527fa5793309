package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tem1004-eng/chulseuk-7/internal/valkeyx"
)

// Backend: 명단 JSON을 읽고 쓰는 저장소
type Backend interface {
	Read(ctx context.Context) ([]byte, bool, error)
	Write(ctx context.Context, payload []byte) error
}

// Settings: 저장소 백엔드 선택과 연결 정보
type Settings struct {
	Backend    string
	Key        string
	Valkey     valkeyx.Config
	SQLitePath string
}

// Open: Settings.Backend에 맞는 저장소를 연결합니다.
// 반환된 closer는 종료 시 한 번 호출해야 한다.
func Open(ctx context.Context, settings Settings, logger *slog.Logger) (Backend, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(strings.TrimSpace(settings.Backend)) {
	case "", BackendMemory:
		logger.Warn("persistence_memory_only")
		return NewMemory(), func() {}, nil

	case BackendValkey:
		client, err := valkeyx.NewClient(settings.Valkey)
		if err != nil {
			return nil, nil, fmt.Errorf("init valkey persistence: %w", err)
		}
		if err := valkeyx.Ping(ctx, client); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("init valkey persistence: %w", err)
		}
		logger.Info("persistence_valkey_connected",
			slog.String("addr", settings.Valkey.Addr),
			slog.String("key", settings.Key),
		)
		return NewValkey(client, settings.Key, logger), func() { valkeyx.Close(client) }, nil

	case BackendSQLite:
		db, err := OpenSQLiteDB(settings.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite persistence: %w", err)
		}
		store, err := NewSQLite(ctx, db, settings.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite persistence: %w", err)
		}
		logger.Info("persistence_sqlite_opened",
			slog.String("path", settings.SQLitePath),
			slog.String("key", settings.Key),
		)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("persistence_sqlite_close_failed", slog.Any("error", err))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown persist backend %q", settings.Backend)
	}
}
