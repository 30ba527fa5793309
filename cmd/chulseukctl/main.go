// Package main: 출석부 운영자용 CLI입니다.
// 파일 검증/가져오기/내보내기와 명단 조회를 서버와 같은 저장소 설정으로 수행한다.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tem1004-eng/chulseuk-7/internal/bootstrap"
	"github.com/tem1004-eng/chulseuk-7/internal/config"
	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/logging"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

var (
	verbose bool

	// 테스트에서 교체한다.
	loadConfig = config.Load
	openStore  = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*roster.Store, func(), error) {
		return bootstrap.OpenRoster(ctx, cfg, logger, nil)
	}
	now = domain.NowKST
)

var rootCmd = &cobra.Command{
	Use:           "chulseukctl",
	Short:         "출석부 관리 도구",
	Long:          `출석부 명단 파일을 검증/가져오기/내보내기하고, 저장된 명단을 조회합니다.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "디버그 로그 출력")
	rootCmd.AddCommand(validateCmd, importCmd, exportCmd, listCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "오류:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if verbose {
		return logging.NewConsoleLogger("debug")
	}
	return logging.NewConsoleLogger("warn")
}

// withStore: 설정을 읽고 저장소를 연 뒤 fn을 실행한다.
func withStore(ctx context.Context, fn func(cfg *config.Config, store *roster.Store, logger *slog.Logger) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(cfg, store, logger)
}

func today() string {
	return domain.TodayKST(now())
}

// commandContext: 직접 호출된 명령에는 context가 없을 수 있다.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
