// Package valkeyx: Valkey 클라이언트 연결과 단일 키 읽기/쓰기 헬퍼를 제공합니다.
package valkeyx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Config: Valkey 클라이언트 연결에 필요한 설정 정보를 담고 있다.
type Config struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	DialTimeout time.Duration

	// DisableCache: 클라이언트 사이드 캐싱 비활성화 여부. miniredis 사용 시 true로 설정한다.
	DisableCache bool

	// ForceSingleClient: 클러스터 탐색 없이 단일 노드 클라이언트를 사용한다.
	ForceSingleClient bool

	UseTLS bool
}

// NewClient: 주어진 설정을 바탕으로 Valkey 클라이언트 인스턴스를 생성한다.
func NewClient(cfg Config) (valkey.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("valkey addr is empty")
	}

	var tlsConfig *tls.Config
	if cfg.UseTLS {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		}
	}

	opts := valkey.ClientOption{
		InitAddress:       []string{addr},
		Username:          cfg.Username,
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		TLSConfig:         tlsConfig,
		DisableCache:      cfg.DisableCache,
		ForceSingleClient: cfg.ForceSingleClient,
	}
	if cfg.DialTimeout > 0 {
		opts.Dialer.Timeout = cfg.DialTimeout
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client failed: %w", err)
	}
	return client, nil
}

// Ping: Valkey 서버와의 연결 상태를 점검한다. (PING 명령 전송)
func Ping(ctx context.Context, client valkey.Client) error {
	if client == nil {
		return errors.New("valkey client is nil")
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey ping failed: %w", err)
	}
	return nil
}

// IsNil: 에러가 Valkey nil(키 없음) 응답인지 확인한다. 래핑된 에러도 검사한다.
func IsNil(err error) bool {
	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		if valkey.IsValkeyNil(unwrapped) {
			return true
		}
	}
	return false
}

// Close: 클라이언트가 nil이 아니면 연결을 종료한다.
func Close(client valkey.Client) {
	if client != nil {
		client.Close()
	}
}
