package health

import (
	"errors"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	Init("1.2.3")

	got := Get(7, nil)
	if got.Status != "ok" || got.Version != "1.2.3" || got.Members != 7 || got.Persist != "ok" {
		t.Errorf("unexpected response: %+v", got)
	}
	if got.Goroutines <= 0 {
		t.Errorf("expected goroutine count, got %d", got.Goroutines)
	}

	if degraded := Get(7, errors.New("valkey down")); degraded.Persist != "degraded" {
		t.Errorf("expected degraded persist, got %s", degraded.Persist)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		1500 * time.Millisecond:     "2s",
		90 * time.Second:            "1m30s",
		2*time.Hour + 3*time.Minute: "2h3m0s",
	}
	for in, want := range tests {
		if got := formatDuration(in); got != want {
			t.Errorf("formatDuration(%v) = %s, want %s", in, got, want)
		}
	}
}
