package roster

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

func TestParseAndValidate_Valid(t *testing.T) {
	input := `[{"id":1,"name":"Kim","position":"집사","phone":"010-1111-2222","attendance":{"2024-01-07":"출석"}}]`

	got, err := ParseAndValidate([]byte(input))
	if err != nil {
		t.Fatalf("ParseAndValidate() error = %v", err)
	}

	want := []domain.Member{{
		ID:         1,
		Name:       "Kim",
		Position:   domain.PositionDeacon,
		Phone:      "010-1111-2222",
		Attendance: map[string]domain.AttendanceStatus{"2024-01-07": domain.StatusPresent},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAndValidate_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  ValidationCode
		index int
	}{
		{"empty", "   ", CodeEmptyInput, 0},
		{"null", "null", CodeEmptyInput, 0},
		{"object", `{"not":"an array"}`, CodeNotAnArray, 0},
		{"element not object", `[1]`, CodeElementNotObject, 1},
		{"missing id", `[{"name":"a","position":"집사","phone":"1","attendance":{}}]`, CodeMissingID, 1},
		{"string id", `[{"id":"1","name":"a","position":"집사","phone":"1","attendance":{}}]`, CodeMissingID, 1},
		{"fractional id", `[{"id":1.5,"name":"a","position":"집사","phone":"1","attendance":{}}]`, CodeMissingID, 1},
		{"id beyond int range", `[{"id":1e300,"name":"a","position":"집사","phone":"1","attendance":{}}]`, CodeMissingID, 1},
		{"id just past max int", `[{"id":9223372036854775808,"name":"a","position":"집사","phone":"1","attendance":{}}]`, CodeMissingID, 1},
		{"id below min int", `[{"id":-1e19,"name":"a","position":"집사","phone":"1","attendance":{}}]`, CodeMissingID, 1},
		{"missing name", `[{"id":1,"position":"집사","phone":"1","attendance":{}}]`, CodeMissingName, 1},
		{"unknown position", `[{"id":1,"name":"Lee","position":"알수없음","phone":"010","attendance":{}}]`, CodeInvalidPosition, 1},
		{"missing phone", `[{"id":1,"name":"a","position":"집사","attendance":{}}]`, CodeMissingPhone, 1},
		{"null attendance", `[{"id":1,"name":"a","position":"집사","phone":"1","attendance":null}]`, CodeMissingAttendance, 1},
		{"array attendance", `[{"id":1,"name":"a","position":"집사","phone":"1","attendance":[]}]`, CodeMissingAttendance, 1},
		{"bad date", `[{"id":1,"name":"a","position":"집사","phone":"1","attendance":{"2024/01/07":"출석"}}]`, CodeInvalidAttendanceEntry, 1},
		{"bad status", `[{"id":1,"name":"a","position":"집사","phone":"1","attendance":{"2024-01-07":"지각"}}]`, CodeInvalidAttendanceEntry, 1},
		{
			"duplicate id",
			`[{"id":1,"name":"Kim","position":"집사","phone":"1","attendance":{}},{"id":1,"name":"Lee","position":"권사","phone":"2","attendance":{}}]`,
			CodeDuplicateID, 2,
		},
		{
			"second element",
			`[{"id":1,"name":"a","position":"집사","phone":"1","attendance":{}},{"id":2,"name":"b","position":"x","phone":"1","attendance":{}}]`,
			CodeInvalidPosition, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAndValidate([]byte(tt.input))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Code != tt.code {
				t.Errorf("code = %s, want %s", verr.Code, tt.code)
			}
			if verr.Index != tt.index {
				t.Errorf("index = %d, want %d", verr.Index, tt.index)
			}
			if verr.Message() == "" {
				t.Error("expected non-empty message")
			}
			if !IsRejected(err) {
				t.Error("IsRejected() = false")
			}
		})
	}
}

func TestParseAndValidate_Malformed(t *testing.T) {
	_, err := ParseAndValidate([]byte(`[{"id":1,`))
	var merr MalformedJSONError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedJSONError, got %v", err)
	}
	if !IsRejected(err) {
		t.Error("IsRejected() = false")
	}
}

func TestValidate_FailFast(t *testing.T) {
	raw := []any{
		map[string]any{"id": 1.0, "name": "a", "position": "없음", "phone": "1", "attendance": map[string]any{}},
		map[string]any{"id": "x"},
	}
	_, err := Validate(raw)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Code != CodeInvalidPosition {
		t.Fatalf("expected first element's InvalidPosition, got %v", err)
	}
}

func TestValidate_RejectsOutOfRangeNativeIDs(t *testing.T) {
	tests := []struct {
		name string
		id   any
	}{
		{"uint64 above max int", uint64(math.MaxUint64)},
		{"uint just past max int", uint64(math.MaxInt) + 1},
		{"float above max int", float64(math.MaxInt)},
		{"float far out", 1e300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []any{map[string]any{"id": tt.id, "name": "a", "position": "집사", "phone": "1", "attendance": map[string]any{}}}
			_, err := Validate(raw)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Code != CodeMissingID {
				t.Fatalf("expected MISSING_ID, got %v", err)
			}
		})
	}

	members, err := Validate([]any{map[string]any{"id": uint64(math.MaxInt), "name": "a", "position": "집사", "phone": "1", "attendance": map[string]any{}}})
	if err != nil {
		t.Fatalf("Validate() max int error = %v", err)
	}
	if members[0].ID != math.MaxInt {
		t.Errorf("ID = %d, want %d", members[0].ID, math.MaxInt)
	}
}

func TestValidate_DuplicateIDCarriesContext(t *testing.T) {
	raw := []any{
		map[string]any{"id": 7, "name": "Kim", "position": "집사", "phone": "1", "attendance": map[string]any{}},
		map[string]any{"id": 8, "name": "Park", "position": "집사", "phone": "1", "attendance": map[string]any{}},
		map[string]any{"id": 7.0, "name": "Lee", "position": "권사", "phone": "2", "attendance": map[string]any{}},
	}
	_, err := Validate(raw)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Code != CodeDuplicateID || verr.Index != 3 || verr.Value != 7 {
		t.Errorf("unexpected error: %+v", verr)
	}
	if want := "3번째 항목의 id(7)가 앞 항목과 중복됩니다."; verr.Message() != want {
		t.Errorf("Message() = %q, want %q", verr.Message(), want)
	}
}

func TestValidate_InvalidAttendanceEntryCarriesContext(t *testing.T) {
	raw := []any{
		map[string]any{
			"id":         3,
			"name":       "박민수",
			"position":   "성도",
			"phone":      "010",
			"attendance": map[string]any{"2024-02-04": "지각"},
		},
	}
	_, err := Validate(raw)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Name != "박민수" || verr.Date != "2024-02-04" || verr.Value != "지각" {
		t.Errorf("unexpected context: %+v", verr)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	attendance := map[string]any{"2024-01-07": "출석"}
	raw := []any{map[string]any{"id": 1.0, "name": "a", "position": "집사", "phone": "1", "attendance": attendance}}

	members, err := Validate(raw)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	members[0].Attendance["2024-01-14"] = domain.StatusAbsent

	if len(attendance) != 1 {
		t.Errorf("input attendance was mutated: %v", attendance)
	}
}

func memberGen() *rapid.Generator[domain.Member] {
	return rapid.Custom(func(t *rapid.T) domain.Member {
		entries := rapid.IntRange(0, 6).Draw(t, "entries")
		attendance := make(map[string]domain.AttendanceStatus, entries)
		for range entries {
			date := fmt.Sprintf("%04d-%02d-%02d",
				rapid.IntRange(2000, 2030).Draw(t, "year"),
				rapid.IntRange(1, 12).Draw(t, "month"),
				rapid.IntRange(1, 28).Draw(t, "day"),
			)
			attendance[date] = rapid.SampledFrom([]domain.AttendanceStatus{domain.StatusPresent, domain.StatusAbsent}).Draw(t, "status")
		}
		return domain.Member{
			ID:         rapid.IntRange(1, 100000).Draw(t, "id"),
			Name:       rapid.StringMatching(`[가-힣A-Za-z ]{1,8}`).Draw(t, "name"),
			Position:   rapid.SampledFrom(domain.Positions).Draw(t, "position"),
			Phone:      rapid.StringMatching(`[0-9\-]{0,13}`).Draw(t, "phone"),
			Attendance: attendance,
		}
	})
}

func memberKey(m domain.Member) int { return m.ID }

func TestValidate_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		members := rapid.SliceOfNDistinct(memberGen(), 0, 8, memberKey).Draw(t, "members")

		payload, err := Marshal(members)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		got, err := ParseAndValidate(payload)
		if err != nil {
			t.Fatalf("ParseAndValidate() error = %v", err)
		}
		if diff := cmp.Diff(members, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestValidate_InvalidPositionIndexProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		members := rapid.SliceOfNDistinct(memberGen(), 1, 8, memberKey).Draw(t, "members")
		bad := rapid.IntRange(0, len(members)-1).Draw(t, "bad")
		members[bad].Position = domain.Position(rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "position"))

		payload, err := Marshal(members)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		_, err = ParseAndValidate(payload)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
		if verr.Code != CodeInvalidPosition || verr.Index != bad+1 {
			t.Fatalf("got %s at %d, want %s at %d", verr.Code, verr.Index, CodeInvalidPosition, bad+1)
		}
	})
}
