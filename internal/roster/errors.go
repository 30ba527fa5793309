package roster

import (
	"errors"
	"fmt"
)

// ValidationCode: 가져오기 데이터 검증 실패 종류
type ValidationCode string

// 검증 실패 코드 목록. 검사 순서대로 나열한다.
const (
	CodeEmptyInput             ValidationCode = "EMPTY_INPUT"
	CodeNotAnArray             ValidationCode = "NOT_AN_ARRAY"
	CodeElementNotObject       ValidationCode = "ELEMENT_NOT_OBJECT"
	CodeMissingID              ValidationCode = "MISSING_ID"
	CodeMissingName            ValidationCode = "MISSING_NAME"
	CodeInvalidPosition        ValidationCode = "INVALID_POSITION"
	CodeMissingPhone           ValidationCode = "MISSING_PHONE"
	CodeMissingAttendance      ValidationCode = "MISSING_ATTENDANCE"
	CodeInvalidAttendanceEntry ValidationCode = "INVALID_ATTENDANCE_ENTRY"
	CodeDuplicateID            ValidationCode = "DUPLICATE_ID"
)

// ValidationError: 명단 데이터가 스키마에 맞지 않을 때 반환되는 에러
// Index는 1부터 시작하는 원소 번호이며, 배열 전체에 대한 에러면 0이다.
type ValidationError struct {
	Code  ValidationCode
	Index int
	Name  string
	Date  string
	Value any
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeEmptyInput:
		return "roster data is empty"
	case CodeNotAnArray:
		return "roster data is not an array"
	case CodeElementNotObject:
		return fmt.Sprintf("member #%d is not an object", e.Index)
	case CodeMissingID:
		return fmt.Sprintf("member #%d: id must be an integer number", e.Index)
	case CodeMissingName:
		return fmt.Sprintf("member #%d: name must be a string", e.Index)
	case CodeInvalidPosition:
		return fmt.Sprintf("member #%d: invalid position %v", e.Index, e.Value)
	case CodeMissingPhone:
		return fmt.Sprintf("member #%d: phone must be a string", e.Index)
	case CodeMissingAttendance:
		return fmt.Sprintf("member #%d: attendance must be an object", e.Index)
	case CodeInvalidAttendanceEntry:
		return fmt.Sprintf("member %q: invalid attendance entry %q=%v", e.Name, e.Date, e.Value)
	case CodeDuplicateID:
		return fmt.Sprintf("member #%d: duplicate id %v", e.Index, e.Value)
	default:
		return fmt.Sprintf("roster validation failed code=%s", e.Code)
	}
}

// Message: 운영자에게 보여줄 한국어 안내 문구를 반환합니다.
func (e *ValidationError) Message() string {
	switch e.Code {
	case CodeEmptyInput:
		return "파일 내용이 비어 있습니다."
	case CodeNotAnArray:
		return "올바른 출석부 데이터 형식이 아닙니다. (배열이 아님)"
	case CodeElementNotObject:
		return fmt.Sprintf("%d번째 항목이 올바른 형식이 아닙니다.", e.Index)
	case CodeMissingID:
		return fmt.Sprintf("%d번째 항목의 id가 숫자가 아닙니다.", e.Index)
	case CodeMissingName:
		return fmt.Sprintf("%d번째 항목의 이름이 없습니다.", e.Index)
	case CodeInvalidPosition:
		return fmt.Sprintf("%d번째 항목의 직분(%v)이 올바르지 않습니다.", e.Index, e.Value)
	case CodeMissingPhone:
		return fmt.Sprintf("%d번째 항목의 전화번호가 없습니다.", e.Index)
	case CodeMissingAttendance:
		return fmt.Sprintf("%d번째 항목의 출석 기록이 없습니다.", e.Index)
	case CodeInvalidAttendanceEntry:
		return fmt.Sprintf("%s님의 출석 기록(%s: %v)이 올바르지 않습니다.", e.Name, e.Date, e.Value)
	case CodeDuplicateID:
		return fmt.Sprintf("%d번째 항목의 id(%v)가 앞 항목과 중복됩니다.", e.Index, e.Value)
	default:
		return "출석부 데이터 검증에 실패했습니다."
	}
}

// MalformedJSONError: 검증 이전에 JSON 파싱 자체가 실패했을 때의 에러
type MalformedJSONError struct {
	Err error
}

func (e MalformedJSONError) Error() string {
	if e.Err == nil {
		return "malformed json"
	}
	return fmt.Sprintf("malformed json: %v", e.Err)
}

func (e MalformedJSONError) Unwrap() error { return e.Err }

// IsRejected: 가져오기 데이터가 거부된 경우(파싱/검증 실패)인지 확인합니다.
// 운영자에게 메시지를 보여주고 가져오기를 중단해야 하는 에러들이다.
func IsRejected(err error) bool {
	if err == nil {
		return false
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	var merr MalformedJSONError
	return errors.As(err, &merr)
}
