// Package logging: tint 핸들러, lumberjack 파일 로테이션, OTel trace 상관관계를 묶은 slog 로거를 제공합니다.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config: 로깅 설정입니다.
type Config struct {
	Level      string // debug, info, warn, error
	Dir        string // 로그 디렉토리 (비어있으면 stdout만)
	FileName   string // 서비스별 로그 파일 이름
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

const (
	defaultLogFileName  = "chulseuk.log"
	combinedLogFileName = "combined.log"
)

// NewLogger: 로거를 생성하고 slog 기본 로거로 등록합니다.
// enableOTel이 true면 로그에 trace_id/span_id가 자동으로 추가됩니다.
func NewLogger(cfg Config, enableOTel bool) (*slog.Logger, error) {
	level := ParseLevel(cfg.Level)
	logDir := strings.TrimSpace(cfg.Dir)
	if logDir == "" {
		logger := newLogger(os.Stdout, level, false, enableOTel)
		slog.SetDefault(logger)
		return logger, nil
	}

	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf(
			"invalid log config: size=%d backups=%d age_days=%d",
			cfg.MaxSizeMB,
			cfg.MaxBackups,
			cfg.MaxAgeDays,
		)
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}

	fileName := strings.TrimSpace(cfg.FileName)
	if fileName == "" {
		fileName = defaultLogFileName
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	// 같은 디렉토리를 쓰는 서비스들의 통합 로그
	combinedLogFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, combinedLogFileName),
		MaxSize:    cfg.MaxSizeMB * 3,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	writer := io.MultiWriter(os.Stdout, logFile, combinedLogFile)
	logger := newLogger(writer, level, true, enableOTel)
	slog.SetDefault(logger)
	logger.Info("file_logging_enabled",
		slog.String("path", logFile.Filename),
		slog.String("combined", combinedLogFile.Filename),
		slog.Bool("otel_correlation", enableOTel),
	)
	return logger, nil
}

// NewConsoleLogger: CLI용 stderr 로거 (파일 출력 없음, 기본 로거로 등록하지 않음)
func NewConsoleLogger(level string) *slog.Logger {
	return newLogger(os.Stderr, ParseLevel(level), false, false)
}

func newLogger(writer io.Writer, level slog.Level, noColor bool, enableOTel bool) *slog.Logger {
	var handler slog.Handler = tint.NewHandler(writer, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    noColor,
	})
	if enableOTel {
		handler = NewOTelHandler(handler)
	}
	return slog.New(handler)
}

// ParseLevel: 문자열 로그 레벨을 slog.Level로 변환합니다. 알 수 없으면 info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OTelHandler: slog.Handler를 래핑하여 trace_id/span_id를 자동으로 로그에 추가합니다.
type OTelHandler struct {
	inner slog.Handler
}

// NewOTelHandler: inner 핸들러를 trace 상관관계 핸들러로 감쌉니다.
func NewOTelHandler(inner slog.Handler) *OTelHandler {
	return &OTelHandler{inner: inner}
}

func (h *OTelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *OTelHandler) Handle(ctx context.Context, record slog.Record) error {
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if err := h.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("handle log record: %w", err)
	}
	return nil
}

func (h *OTelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &OTelHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *OTelHandler) WithGroup(name string) slog.Handler {
	return &OTelHandler{inner: h.inner.WithGroup(name)}
}
