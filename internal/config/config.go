// Package config: 환경 변수(.env 포함)에서 출석부 서비스 설정을 읽어옵니다.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config: 애플리케이션 설정
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Persist   PersistConfig
	Valkey    ValkeyConfig
	Roster    RosterConfig
	Iris      IrisConfig
	Telemetry TelemetryConfig
}

// ServerConfig: HTTP 서버 설정
type ServerConfig struct {
	Host             string
	Port             int
	APIKey           string
	CORSAllowOrigins []string
}

// Addr: host:port 형식의 listen 주소
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig: 로깅 설정 (Dir이 비어 있으면 stdout만 사용)
type LogConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// PersistConfig: 명단 저장소 설정
type PersistConfig struct {
	Backend    string
	Key        string
	SQLitePath string
	Timeout    time.Duration
}

// ValkeyConfig: Valkey 연결 설정
type ValkeyConfig struct {
	Host     string
	Port     int
	Password string
}

// Addr: host:port 형식의 Valkey 주소
func (c ValkeyConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RosterConfig: 화면 조회 관련 설정
type RosterConfig struct {
	PageSize       int
	MarkingWeekday time.Weekday
}

// IrisConfig: 내보내기 공유용 Iris(카카오톡) 설정. BaseURL이 비어 있으면 공유 비활성.
type IrisConfig struct {
	BaseURL string
	Room    string
	Timeout time.Duration
	// H2C: 평문 HTTP/2로 연결한다.
	H2C bool
}

// Enabled: 공유 대상이 설정되어 있는지 여부
func (c IrisConfig) Enabled() bool {
	return c.BaseURL != "" && c.Room != ""
}

// TelemetryConfig: OpenTelemetry 트레이싱 설정
type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRate  float64
}

// Load: .env를 읽은 뒤 환경 변수에서 설정을 구성합니다.
func Load() (*Config, error) {
	if err := LoadDotenvIfPresent(); err != nil {
		return nil, err
	}
	return FromEnv()
}

// FromEnv: 현재 환경 변수만으로 설정을 구성합니다.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	if cfg.Server, err = readServerConfig(); err != nil {
		return nil, err
	}
	if cfg.Log, err = readLogConfig(); err != nil {
		return nil, err
	}
	if cfg.Persist, err = readPersistConfig(); err != nil {
		return nil, err
	}
	if cfg.Valkey, err = readValkeyConfig(); err != nil {
		return nil, err
	}
	if cfg.Roster, err = readRosterConfig(); err != nil {
		return nil, err
	}
	if cfg.Iris, err = readIrisConfig(); err != nil {
		return nil, err
	}
	if cfg.Telemetry, err = readTelemetryConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readServerConfig() (ServerConfig, error) {
	port, err := IntFromEnv("SERVER_PORT", 30100)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}
	if port <= 0 || port > 65535 {
		return ServerConfig{}, fmt.Errorf("invalid SERVER_PORT: %d", port)
	}

	return ServerConfig{
		Host:             StringFromEnv("SERVER_HOST", "0.0.0.0"),
		Port:             port,
		APIKey:           StringFromEnvFirstNonEmpty([]string{"API_KEY", "HTTP_API_KEY"}, ""),
		CORSAllowOrigins: StringListFromEnv("CORS_ALLOW_ORIGINS", []string{"*"}),
	}, nil
}

func readLogConfig() (LogConfig, error) {
	maxSize, err := IntFromEnv("LOG_FILE_MAX_SIZE_MB", 50)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_SIZE_MB failed: %w", err)
	}
	maxBackups, err := IntFromEnv("LOG_FILE_MAX_BACKUPS", 3)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_BACKUPS failed: %w", err)
	}
	maxAge, err := IntFromEnv("LOG_FILE_MAX_AGE_DAYS", 7)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_AGE_DAYS failed: %w", err)
	}
	compress, err := BoolFromEnv("LOG_FILE_COMPRESS", true)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_COMPRESS failed: %w", err)
	}

	return LogConfig{
		Level:      StringFromEnv("LOG_LEVEL", "info"),
		Dir:        StringFromEnv("LOG_DIR", ""),
		MaxSizeMB:  maxSize,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAge,
		Compress:   compress,
	}, nil
}

func readPersistConfig() (PersistConfig, error) {
	timeout, err := DurationMillisFromEnv("PERSIST_TIMEOUT_MILLIS", 3000)
	if err != nil {
		return PersistConfig{}, fmt.Errorf("read PERSIST_TIMEOUT_MILLIS failed: %w", err)
	}

	backend := strings.ToLower(StringFromEnv("PERSIST_BACKEND", "sqlite"))
	switch backend {
	case "memory", "valkey", "sqlite":
	default:
		return PersistConfig{}, fmt.Errorf("invalid PERSIST_BACKEND: %q", backend)
	}

	return PersistConfig{
		Backend:    backend,
		Key:        StringFromEnv("ROSTER_KEY", "chulseuk:roster"),
		SQLitePath: StringFromEnv("SQLITE_PATH", "chulseuk.db"),
		Timeout:    timeout,
	}, nil
}

func readValkeyConfig() (ValkeyConfig, error) {
	port, err := IntFromEnv("VALKEY_PORT", 6379)
	if err != nil {
		return ValkeyConfig{}, fmt.Errorf("read VALKEY_PORT failed: %w", err)
	}

	return ValkeyConfig{
		Host:     StringFromEnvFirstNonEmpty([]string{"VALKEY_HOST", "REDIS_HOST"}, "localhost"),
		Port:     port,
		Password: StringFromEnvFirstNonEmpty([]string{"VALKEY_PASSWORD", "REDIS_PASSWORD"}, ""),
	}, nil
}

func readRosterConfig() (RosterConfig, error) {
	pageSize, err := IntFromEnv("PAGE_SIZE", 10)
	if err != nil {
		return RosterConfig{}, fmt.Errorf("read PAGE_SIZE failed: %w", err)
	}
	if pageSize < 1 {
		return RosterConfig{}, fmt.Errorf("invalid PAGE_SIZE: %d", pageSize)
	}

	weekday, err := ParseWeekday(StringFromEnv("MARKING_WEEKDAY", "sunday"))
	if err != nil {
		return RosterConfig{}, fmt.Errorf("read MARKING_WEEKDAY failed: %w", err)
	}

	return RosterConfig{PageSize: pageSize, MarkingWeekday: weekday}, nil
}

func readIrisConfig() (IrisConfig, error) {
	timeout, err := DurationMillisFromEnv("IRIS_TIMEOUT_MILLIS", 5000)
	if err != nil {
		return IrisConfig{}, fmt.Errorf("read IRIS_TIMEOUT_MILLIS failed: %w", err)
	}

	h2c, err := BoolFromEnv("IRIS_H2C", false)
	if err != nil {
		return IrisConfig{}, fmt.Errorf("read IRIS_H2C failed: %w", err)
	}

	return IrisConfig{
		BaseURL: strings.TrimRight(StringFromEnv("IRIS_BASE_URL", ""), "/"),
		Room:    StringFromEnv("IRIS_ROOM", ""),
		Timeout: timeout,
		H2C:     h2c,
	}, nil
}

func readTelemetryConfig() (TelemetryConfig, error) {
	enabled, err := BoolFromEnv("OTEL_ENABLED", false)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_ENABLED failed: %w", err)
	}
	sampleRate, err := Float64FromEnv("OTEL_SAMPLE_RATE", 1.0)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SAMPLE_RATE failed: %w", err)
	}

	return TelemetryConfig{
		Enabled:     enabled,
		Endpoint:    StringFromEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ServiceName: StringFromEnv("OTEL_SERVICE_NAME", "chulseuk"),
		SampleRate:  sampleRate,
	}, nil
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday, "일": time.Sunday, "0": time.Sunday,
	"monday": time.Monday, "mon": time.Monday, "월": time.Monday, "1": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "화": time.Tuesday, "2": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "수": time.Wednesday, "3": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "목": time.Thursday, "4": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "금": time.Friday, "5": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "토": time.Saturday, "6": time.Saturday,
}

// ParseWeekday: 요일 이름(영문/한글 한 글자/숫자)을 time.Weekday로 변환합니다.
func ParseWeekday(s string) (time.Weekday, error) {
	if d, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
