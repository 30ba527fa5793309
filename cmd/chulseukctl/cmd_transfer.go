package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/tem1004-eng/chulseuk-7/internal/bootstrap"
	"github.com/tem1004-eng/chulseuk-7/internal/config"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
	"github.com/tem1004-eng/chulseuk-7/internal/transfer"
)

var (
	importYes   bool
	exportOut   string
	exportCopy  bool
	exportShare bool

	// 클립보드가 없는 환경(CI)에서는 테스트가 교체한다.
	writeClipboard = clipboard.WriteAll
)

// errCanceled: 사용자가 가져오기를 취소함
var errCanceled = errors.New("import canceled")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "출석부 파일 형식 검사",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "파일로 명단 전체 교체",
	Long:  `파일을 검증한 뒤 현재 명단 전체를 교체합니다. 되돌릴 수 없으므로 확인을 받습니다.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "명단을 출석부_YYYY-MM-DD.json 파일로 저장",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "확인 없이 교체")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "저장할 디렉토리")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "내용을 클립보드로 복사")
	exportCmd.Flags().BoolVar(&exportShare, "share", false, "Iris를 통해 카카오톡 방으로 공유")
}

func runValidate(cmd *cobra.Command, args []string) error {
	members, err := transfer.LoadImport(args[0])
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), transfer.UserMessage(err))
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "올바른 출석부 파일입니다. (%d명)\n", len(members))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	members, err := transfer.LoadImport(args[0])
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), transfer.UserMessage(err))
		return err
	}

	return withStore(commandContext(cmd), func(_ *config.Config, store *roster.Store, logger *slog.Logger) error {
		if !importYes {
			ok, err := transfer.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), len(members))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "가져오기를 취소했습니다.")
				return errCanceled
			}
		}

		store.BulkReplace(commandContext(cmd), members)
		if err := store.LastPersistError(); err != nil {
			return fmt.Errorf("save roster: %w", err)
		}
		logger.Info("roster_imported", slog.String("file", args[0]), slog.Int("members", len(members)))
		fmt.Fprintf(cmd.OutOrStdout(), "%d명의 명단을 가져왔습니다.\n", len(members))
		return nil
	})
}

func runExport(cmd *cobra.Command, _ []string) error {
	return withStore(commandContext(cmd), func(cfg *config.Config, store *roster.Store, logger *slog.Logger) error {
		path, payload, err := transfer.WriteExport(exportOut, today(), store.Snapshot())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "저장했습니다: %s\n", path)

		var companions []transfer.Companion
		if exportCopy {
			companions = append(companions, transfer.Companion{Name: "clipboard", Run: copyToClipboard})
		}
		if exportShare {
			sharer := bootstrap.NewIrisSharer(cfg, logger)
			if sharer == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "IRIS_BASE_URL/IRIS_ROOM이 설정되지 않아 공유를 건너뜁니다.")
			} else {
				companions = append(companions, transfer.Companion{Name: "iris", Run: sharer.Share})
			}
		}

		failed := transfer.RunCompanions(commandContext(cmd), logger, transfer.ExportFileName(today()), payload, companions...)
		for _, name := range failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s 작업에 실패했습니다. (파일은 저장됨)\n", name)
		}
		return nil
	})
}

func copyToClipboard(_ context.Context, _ string, payload []byte) error {
	return writeClipboard(string(payload))
}
