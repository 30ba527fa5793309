// Package roster: 출석부의 핵심 로직(가져오기 검증, 명단 저장소, 조회용 계산)을 담당합니다.
package roster

import (
	"bytes"
	"math"
	"reflect"

	json "github.com/goccy/go-json"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

// ParseAndValidate: JSON 텍스트를 파싱한 뒤 Validate를 수행합니다.
// 파싱 실패는 MalformedJSONError, 형식 오류는 *ValidationError로 반환한다.
func ParseAndValidate(data []byte) ([]domain.Member, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ValidationError{Code: CodeEmptyInput}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, MalformedJSONError{Err: err}
	}
	return Validate(raw)
}

// Validate: 디코딩된 임의의 값이 출석부 스키마를 만족하는지 검사합니다.
// 첫 번째 실패에서 즉시 멈추며, 입력은 변경하지 않는다.
func Validate(raw any) ([]domain.Member, error) {
	if raw == nil {
		return nil, &ValidationError{Code: CodeEmptyInput}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Code: CodeNotAnArray}
	}

	members := make([]domain.Member, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for i, item := range items {
		member, err := validateMember(i+1, item)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[member.ID]; dup {
			return nil, &ValidationError{Code: CodeDuplicateID, Index: i + 1, Value: member.ID}
		}
		seen[member.ID] = struct{}{}
		members = append(members, member)
	}
	return members, nil
}

func validateMember(index int, item any) (domain.Member, error) {
	obj, ok := item.(map[string]any)
	if !ok || obj == nil {
		return domain.Member{}, &ValidationError{Code: CodeElementNotObject, Index: index}
	}

	id, ok := integerID(obj["id"])
	if !ok {
		return domain.Member{}, &ValidationError{Code: CodeMissingID, Index: index}
	}

	name, ok := obj["name"].(string)
	if !ok {
		return domain.Member{}, &ValidationError{Code: CodeMissingName, Index: index}
	}

	position, ok := obj["position"].(string)
	if !ok || !domain.IsPosition(position) {
		return domain.Member{}, &ValidationError{Code: CodeInvalidPosition, Index: index, Value: obj["position"]}
	}

	phone, ok := obj["phone"].(string)
	if !ok {
		return domain.Member{}, &ValidationError{Code: CodeMissingPhone, Index: index}
	}

	rawAttendance, ok := obj["attendance"].(map[string]any)
	if !ok || rawAttendance == nil {
		return domain.Member{}, &ValidationError{Code: CodeMissingAttendance, Index: index}
	}

	attendance := make(map[string]domain.AttendanceStatus, len(rawAttendance))
	for date, value := range rawAttendance {
		status, isString := value.(string)
		if !domain.IsDateKey(date) || !isString || !domain.IsStatus(status) {
			return domain.Member{}, &ValidationError{
				Code:  CodeInvalidAttendanceEntry,
				Index: index,
				Name:  name,
				Date:  date,
				Value: value,
			}
		}
		attendance[date] = domain.AttendanceStatus(status)
	}

	return domain.Member{
		ID:         id,
		Name:       name,
		Position:   domain.Position(position),
		Phone:      phone,
		Attendance: attendance,
	}, nil
}

// integerID: 숫자 값을 정수 id로 변환합니다. 소수부가 있거나 int 범위를 넘으면 거부한다.
func integerID(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return intID(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatID(f)
	case float64:
		return floatID(n)
	case float32:
		return floatID(float64(n))
	case nil:
		return 0, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intID(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt {
			return 0, false
		}
		return int(rv.Uint()), true
	default:
		return 0, false
	}
}

func floatID(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// MaxInt+1은 2의 거듭제곱이라 float64로 정확히 표현된다.
	if f < math.MinInt || f >= math.MaxInt+1 {
		return 0, false
	}
	return int(f), true
}

func intID(i int64) (int, bool) {
	if i < math.MinInt || i > math.MaxInt {
		return 0, false
	}
	return int(i), true
}
