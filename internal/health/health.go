// Package health: 서비스 상태 정보
package health

import (
	"runtime"
	"sync"
	"time"
)

var (
	startTime = time.Now()
	version   = "dev"
	initOnce  sync.Once
)

// Init: 서비스 시작 시 호출 (버전 정보 설정)
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Response: /health 엔드포인트 표준 응답
type Response struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
	Members    int    `json:"members"`
	Persist    string `json:"persist"`
}

// Get: 현재 상태 반환. persistErr는 마지막 저장 결과다.
func Get(members int, persistErr error) Response {
	persist := "ok"
	if persistErr != nil {
		persist = "degraded"
	}
	return Response{
		Status:     "ok",
		Version:    version,
		Uptime:     formatDuration(time.Since(startTime)),
		Goroutines: runtime.NumGoroutine(),
		Members:    members,
		Persist:    persist,
	}
}

// formatDuration: 초 단위로 반올림한 사람이 읽기 쉬운 형식
func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
