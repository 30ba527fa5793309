package domain

import "regexp"

// AttendanceStatus: 특정 날짜의 출석 상태
type AttendanceStatus string

// 출석 상태 값.
const (
	StatusPresent AttendanceStatus = "출석"
	StatusAbsent  AttendanceStatus = "결석"

	// StatusUnset: 출석 기록을 지울 때 사용하는 표식. 저장되지 않는다.
	StatusUnset AttendanceStatus = ""
	// StatusAll: 상태 필터에서 "전체"를 뜻하는 값
	StatusAll AttendanceStatus = "all"
)

// DateLayout: 출석 맵 키로 쓰는 날짜 형식 (YYYY-MM-DD)
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Valid: 저장 가능한 상태(출석/결석)인지 확인합니다.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// IsStatus: 문자열이 저장 가능한 출석 상태인지 확인합니다.
func IsStatus(s string) bool {
	return AttendanceStatus(s).Valid()
}

// IsDateKey: 문자열이 출석 맵 키 형식(YYYY-MM-DD)과 일치하는지 확인합니다.
// 형식만 검사하며 달력상 존재하는 날짜인지는 보지 않는다.
func IsDateKey(s string) bool {
	return datePattern.MatchString(s)
}
