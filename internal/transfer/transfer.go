// Package transfer: 출석부 JSON 파일 가져오기/내보내기 흐름(파일 읽기, 검증, 확인, 부가 공유)을 담당합니다.
package transfer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

// FileReadError: 가져오기 파일을 읽지 못했을 때의 에러
type FileReadError struct {
	Path string
	Err  error
}

func (e FileReadError) Error() string {
	return fmt.Sprintf("read import file %s: %v", e.Path, e.Err)
}

func (e FileReadError) Unwrap() error { return e.Err }

// Message: 운영자 안내 문구
func (e FileReadError) Message() string {
	return "파일을 읽는 중 오류가 발생했습니다."
}

// ExportFileName: 내보내기 파일 이름 (출석부_YYYY-MM-DD.json)
func ExportFileName(today string) string {
	return "출석부_" + today + ".json"
}

// ReadFile: 파일 전체를 한 번에 읽는다.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FileReadError{Path: path, Err: err}
	}
	return data, nil
}

// LoadImport: 파일을 읽고 명단 스키마를 검증합니다. 실패하면 명단을 바꾸지 않아야 한다.
func LoadImport(path string) ([]domain.Member, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	members, err := roster.ParseAndValidate(data)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return members, nil
}

// UserMessage: 가져오기 실패를 운영자에게 보여줄 한국어 문구로 바꾼다.
func UserMessage(err error) string {
	var (
		verr *roster.ValidationError
		ferr FileReadError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message()
	case errors.As(err, &ferr):
		return ferr.Message()
	case roster.IsRejected(err):
		return "JSON 형식이 올바르지 않습니다."
	default:
		return "가져오기에 실패했습니다."
	}
}

// Confirm: 전체 교체 전 y/N 확인을 받는다. y/yes 외의 입력은 거절로 본다.
func Confirm(in io.Reader, out io.Writer, count int) (bool, error) {
	if _, err := fmt.Fprintf(out, "현재 출석부를 %d명의 가져온 명단으로 덮어씁니다. 되돌릴 수 없습니다. 계속할까요? [y/N] ", count); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "예", "네":
		return true, nil
	default:
		return false, nil
	}
}

// WriteExport: dir 아래에 내보내기 파일을 만든다. 만든 경로를 반환한다.
func WriteExport(dir, today string, members []domain.Member) (string, []byte, error) {
	payload, err := roster.Export(members)
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, ExportFileName(today))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", nil, fmt.Errorf("write export %s: %w", path, err)
	}
	return path, payload, nil
}

// Companion: 내보내기 후 부가 동작 (클립보드 복사, 메신저 공유 등)
type Companion struct {
	Name string
	Run  func(ctx context.Context, fileName string, payload []byte) error
}

// RunCompanions: 부가 동작을 동시에 실행한다. 실패는 로그만 남기고 실패한 이름을 정렬해 반환한다.
func RunCompanions(ctx context.Context, logger *slog.Logger, fileName string, payload []byte, companions ...Companion) []string {
	if logger == nil {
		logger = slog.Default()
	}

	p := pool.NewWithResults[string]()
	for _, c := range companions {
		p.Go(func() string {
			if err := c.Run(ctx, fileName, payload); err != nil {
				logger.WarnContext(ctx, "export_companion_failed",
					slog.String("companion", c.Name),
					slog.Any("error", err),
				)
				return c.Name
			}
			return ""
		})
	}

	var failed []string
	for _, name := range p.Wait() {
		if name != "" {
			failed = append(failed, name)
		}
	}
	slices.Sort(failed)
	return failed
}
