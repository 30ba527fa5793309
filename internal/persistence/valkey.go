package persistence

import (
	"context"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/tem1004-eng/chulseuk-7/internal/valkeyx"
)

// Valkey: 명단 JSON을 Valkey 키 하나에 저장한다. (만료 없음)
type Valkey struct {
	client valkey.Client
	key    string
	logger *slog.Logger
}

// NewValkey: 새로운 Valkey 저장소를 생성합니다.
func NewValkey(client valkey.Client, key string, logger *slog.Logger) *Valkey {
	if logger == nil {
		logger = slog.Default()
	}
	return &Valkey{client: client, key: key, logger: logger}
}

func (v *Valkey) Read(ctx context.Context) ([]byte, bool, error) {
	raw, ok, err := valkeyx.GetBytes(ctx, v.client, v.key)
	if err != nil {
		return nil, false, ReadError{Backend: BackendValkey, Key: v.key, Err: err}
	}
	return raw, ok, nil
}

func (v *Valkey) Write(ctx context.Context, payload []byte) error {
	if err := valkeyx.SetString(ctx, v.client, v.key, string(payload)); err != nil {
		return WriteError{Backend: BackendValkey, Key: v.key, Err: err}
	}
	v.logger.Debug("roster_saved", slog.String("key", v.key), slog.Int("bytes", len(payload)))
	return nil
}
