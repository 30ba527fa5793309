// Package persistence: 명단 JSON 한 덩어리를 보관하는 저장소 백엔드(valkey, sqlite, memory)를 제공합니다.
package persistence

import (
	"context"
	"sync"
)

// PERSIST_BACKEND 값
const (
	BackendMemory = "memory"
	BackendValkey = "valkey"
	BackendSQLite = "sqlite"
)

// Memory: 프로세스 안에만 보관하는 저장소. 재시작하면 사라진다.
type Memory struct {
	mu      sync.RWMutex
	payload []byte
	stored  bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read(_ context.Context) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.stored {
		return nil, false, nil
	}
	return append([]byte(nil), m.payload...), true, nil
}

func (m *Memory) Write(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = append([]byte(nil), payload...)
	m.stored = true
	return nil
}
