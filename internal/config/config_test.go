package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIntFromEnv(t *testing.T) {
	key := "TEST_INT_ENV"

	t.Run("default", func(t *testing.T) {
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	t.Run("blank uses default", func(t *testing.T) {
		t.Setenv(key, "   ")
		got, err := IntFromEnv(key, 42)
		if err != nil || got != 42 {
			t.Errorf("expected 42, got %d (%v)", got, err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "not_int")
		if _, err := IntFromEnv(key, 42); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestBoolFromEnv(t *testing.T) {
	key := "TEST_BOOL_ENV"

	tests := []struct {
		val  string
		want bool
	}{
		{"true", true},
		{"Y", true},
		{"1", true},
		{"no", false},
		{"0", false},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv(key, tt.val)
			got, err := BoolFromEnv(key, !tt.want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Setenv(key, "maybe")
	if _, err := BoolFromEnv(key, false); err == nil {
		t.Error("expected error for invalid bool")
	}
}

func TestDurationMillisFromEnv(t *testing.T) {
	key := "TEST_DURATION_ENV"

	got, err := DurationMillisFromEnv(key, 1500)
	if err != nil || got != 1500*time.Millisecond {
		t.Errorf("default: got %v (%v)", got, err)
	}

	t.Setenv(key, "-1")
	if _, err := DurationMillisFromEnv(key, 1500); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestStringFromEnvFirstNonEmpty(t *testing.T) {
	t.Setenv("TEST_FIRST", "")
	t.Setenv("TEST_SECOND", "second")
	if got := StringFromEnvFirstNonEmpty([]string{"TEST_FIRST", "TEST_SECOND"}, "d"); got != "second" {
		t.Errorf("expected second, got %s", got)
	}
	if got := StringFromEnvFirstNonEmpty([]string{"TEST_MISSING"}, "d"); got != "d" {
		t.Errorf("expected default, got %s", got)
	}
}

func TestStringListFromEnv(t *testing.T) {
	t.Setenv("TEST_LIST", "http://a.example, http://b.example  http://c.example")
	got := StringListFromEnv("TEST_LIST", nil)
	if len(got) != 3 || got[2] != "http://c.example" {
		t.Errorf("unexpected list: %v", got)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:30100" {
		t.Errorf("unexpected addr %s", cfg.Server.Addr())
	}
	if cfg.Persist.Key != "chulseuk:roster" || cfg.Persist.Timeout != 3*time.Second {
		t.Errorf("unexpected persist config: %+v", cfg.Persist)
	}
	if cfg.Roster.PageSize != 10 || cfg.Roster.MarkingWeekday != time.Sunday {
		t.Errorf("unexpected roster config: %+v", cfg.Roster)
	}
	if cfg.Iris.Enabled() {
		t.Error("iris should be disabled by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("API_KEY", "secret")
	t.Setenv("PERSIST_BACKEND", "Valkey")
	t.Setenv("VALKEY_HOST", "valkey-cache")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("MARKING_WEEKDAY", "수")
	t.Setenv("IRIS_BASE_URL", "http://iris:3000/")
	t.Setenv("IRIS_ROOM", "청년부")
	t.Setenv("OTEL_SAMPLE_RATE", "0.25")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.APIKey != "secret" {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Persist.Backend != "valkey" || cfg.Valkey.Addr() != "valkey-cache:6379" {
		t.Errorf("unexpected persistence: %+v %+v", cfg.Persist, cfg.Valkey)
	}
	if cfg.Roster.PageSize != 25 || cfg.Roster.MarkingWeekday != time.Wednesday {
		t.Errorf("unexpected roster config: %+v", cfg.Roster)
	}
	if !cfg.Iris.Enabled() || cfg.Iris.BaseURL != "http://iris:3000" {
		t.Errorf("unexpected iris config: %+v", cfg.Iris)
	}
	if cfg.Telemetry.SampleRate != 0.25 {
		t.Errorf("unexpected sample rate %v", cfg.Telemetry.SampleRate)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"SERVER_PORT":     "70000",
		"PERSIST_BACKEND": "etcd",
		"PAGE_SIZE":       "0",
		"MARKING_WEEKDAY": "someday",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadDotenvIfPresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TEST_DOTENV_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEST_DOTENV_VALUE", "")
	os.Unsetenv("TEST_DOTENV_VALUE")

	if err := LoadDotenvIfPresent(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotenvIfPresent() error = %v", err)
	}
	if got := os.Getenv("TEST_DOTENV_VALUE"); got != "from-file" {
		t.Errorf("expected from-file, got %q", got)
	}
}
