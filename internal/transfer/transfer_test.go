package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExportFileName(t *testing.T) {
	if got := ExportFileName("2024-03-03"); got != "출석부_2024-03-03.json" {
		t.Errorf("ExportFileName() = %s", got)
	}
}

func TestLoadImport(t *testing.T) {
	path := writeFile(t, `[{"id":1,"name":"Kim","position":"집사","phone":"010-1111-2222","attendance":{"2024-01-07":"출석"}}]`)
	members, err := LoadImport(path)
	if err != nil {
		t.Fatalf("LoadImport() error = %v", err)
	}
	if len(members) != 1 || members[0].Attendance["2024-01-07"] != domain.StatusPresent {
		t.Errorf("unexpected members: %+v", members)
	}
}

func TestLoadImport_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadImport(filepath.Join(t.TempDir(), "nope.json"))
		var ferr FileReadError
		if !errors.As(err, &ferr) {
			t.Fatalf("expected FileReadError, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("expected wrapped ErrNotExist")
		}
		if UserMessage(err) != "파일을 읽는 중 오류가 발생했습니다." {
			t.Errorf("unexpected message %q", UserMessage(err))
		}
	})

	t.Run("not an array", func(t *testing.T) {
		_, err := LoadImport(writeFile(t, `{"not":"an array"}`))
		var verr *roster.ValidationError
		if !errors.As(err, &verr) || verr.Code != roster.CodeNotAnArray {
			t.Fatalf("expected NotAnArray, got %v", err)
		}
		if !strings.Contains(UserMessage(err), "배열이 아님") {
			t.Errorf("unexpected message %q", UserMessage(err))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LoadImport(writeFile(t, `[{`))
		if UserMessage(err) != "JSON 형식이 올바르지 않습니다." {
			t.Errorf("unexpected message %q", UserMessage(err))
		}
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"예", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(strings.NewReader(tt.input), &out, 3)
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "3명") {
			t.Errorf("prompt missing count: %q", out.String())
		}
	}
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	members := []domain.Member{{ID: 1, Name: "Kim", Position: domain.PositionDeacon, Phone: "010", Attendance: map[string]domain.AttendanceStatus{}}}

	path, payload, err := WriteExport(dir, "2024-03-03", members)
	if err != nil {
		t.Fatalf("WriteExport() error = %v", err)
	}
	if filepath.Base(path) != "출석부_2024-03-03.json" {
		t.Errorf("unexpected path %s", path)
	}
	onDisk, _ := os.ReadFile(path)
	if !bytes.Equal(onDisk, payload) {
		t.Error("payload differs from file content")
	}
	if !bytes.Contains(payload, []byte("\n  {")) {
		t.Errorf("expected 2-space indented output:\n%s", payload)
	}

	reimported, err := roster.ParseAndValidate(payload)
	if err != nil || len(reimported) != 1 {
		t.Errorf("export does not re-import: %v", err)
	}
}

func TestRunCompanions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var copied []byte

	failed := RunCompanions(context.Background(), logger, "f.json", []byte("[]"),
		Companion{Name: "clipboard", Run: func(_ context.Context, _ string, payload []byte) error {
			copied = payload
			return nil
		}},
		Companion{Name: "share", Run: func(context.Context, string, []byte) error {
			return errors.New("iris down")
		}},
	)

	if string(copied) != "[]" {
		t.Error("clipboard companion not run")
	}
	if len(failed) != 1 || failed[0] != "share" {
		t.Errorf("unexpected failures %v", failed)
	}
}

func TestRunCompanions_FailuresSorted(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fail := func(context.Context, string, []byte) error { return errors.New("boom") }

	failed := RunCompanions(context.Background(), logger, "f.json", nil,
		Companion{Name: "share", Run: fail},
		Companion{Name: "clipboard", Run: fail},
	)
	if len(failed) != 2 || failed[0] != "clipboard" || failed[1] != "share" {
		t.Errorf("unexpected failures %v", failed)
	}
	if got := RunCompanions(context.Background(), logger, "f.json", nil); len(got) != 0 {
		t.Errorf("expected no failures, got %v", got)
	}
}
