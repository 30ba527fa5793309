// Package domain: 출석부의 핵심 데이터 타입(교인, 직분, 출석 상태)을 정의합니다.
package domain

// Member: 출석부에 등록된 교인 한 명의 정보와 날짜별 출석 기록
type Member struct {
	ID         int                         `json:"id"`
	Name       string                      `json:"name"`
	Position   Position                    `json:"position"`
	Phone      string                      `json:"phone"`
	Attendance map[string]AttendanceStatus `json:"attendance"`
}

// Clone: 출석 맵까지 복사한 독립적인 사본을 반환합니다.
func (m Member) Clone() Member {
	out := m
	out.Attendance = make(map[string]AttendanceStatus, len(m.Attendance))
	for date, status := range m.Attendance {
		out.Attendance[date] = status
	}
	return out
}

// StatusOn: 주어진 날짜의 출석 상태를 반환합니다. 기록이 없으면 ok=false.
func (m Member) StatusOn(date string) (AttendanceStatus, bool) {
	status, ok := m.Attendance[date]
	return status, ok
}

// CloneMembers: 교인 목록 전체를 깊은 복사합니다.
func CloneMembers(members []Member) []Member {
	out := make([]Member, len(members))
	for i, m := range members {
		out[i] = m.Clone()
	}
	return out
}
