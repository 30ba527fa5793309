package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

// Filter: 명단 조회 조건
// Position/Status가 "all"이거나 비어 있으면 해당 조건은 적용하지 않는다.
type Filter struct {
	Position domain.Position         `json:"position"`
	Status   domain.AttendanceStatus `json:"status"`
	Date     string                  `json:"date"`
}

// DefaultFilter: 전체 직분, 전체 상태, 오늘 날짜 조건을 반환합니다. (가져오기 직후 초기화 값)
func DefaultFilter(today string) Filter {
	return Filter{
		Position: domain.PositionAll,
		Status:   domain.StatusAll,
		Date:     today,
	}
}

// Reset: 조건을 DefaultFilter(today)로 되돌립니다.
func (f *Filter) Reset(today string) {
	*f = DefaultFilter(today)
}

func (f Filter) matchesPosition(m domain.Member) bool {
	return matchPosition(f.Position, m)
}

func (f Filter) matchesStatus(m domain.Member) bool {
	if f.Status == "" || f.Status == domain.StatusAll {
		return true
	}
	status, ok := m.StatusOn(f.Date)
	return ok && status == f.Status
}

func matchPosition(position domain.Position, m domain.Member) bool {
	if position == "" || position == domain.PositionAll {
		return true
	}
	return m.Position == position
}

// FilterRoster: 직분과 (선택 날짜의) 출석 상태로 명단을 거릅니다. 순서는 유지된다.
func FilterRoster(members []domain.Member, f Filter) []domain.Member {
	out := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if f.matchesPosition(m) && f.matchesStatus(m) {
			out = append(out, m)
		}
	}
	return out
}

// Paginate: 1부터 시작하는 page 번호의 구간 [(page-1)*size, page*size)를 반환합니다.
// 범위를 벗어나거나 page/size가 1 미만이면 빈 목록이다.
func Paginate(members []domain.Member, page, size int) []domain.Member {
	if page < 1 || size < 1 {
		return []domain.Member{}
	}
	start := (page - 1) * size
	if start >= len(members) {
		return []domain.Member{}
	}
	end := min(start+size, len(members))
	return members[start:end]
}

// TotalPages: ceil(n/size). n이 0이면 0.
func TotalPages(n, size int) int {
	if n <= 0 || size < 1 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage: 필터 결과가 줄어들어 page가 범위를 벗어나면 마지막 페이지(최소 1)로 당깁니다.
func ClampPage(page, n, size int) int {
	last := max(TotalPages(n, size), 1)
	switch {
	case page < 1:
		return 1
	case page > last:
		return last
	default:
		return page
	}
}

// Counts: 조회 범위의 출석 집계
type Counts struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// CountsForScope: position에 해당하는 교인 중 date 기준 출석/결석 수를 셉니다. 상태 필터는 무시한다.
func CountsForScope(members []domain.Member, position domain.Position, date string) Counts {
	var c Counts
	for _, m := range members {
		if !matchPosition(position, m) {
			continue
		}
		c.Total++
		status, _ := m.StatusOn(date)
		switch status {
		case domain.StatusPresent:
			c.Present++
		case domain.StatusAbsent:
			c.Absent++
		}
	}
	return c
}

// Stats: 교인 한 명의 월간/연간 출석 통계
type Stats struct {
	PresentMonth int `json:"presentMonth"`
	TotalMonth   int `json:"totalMonth"`
	MonthRate    int `json:"monthRate"`
	PresentYear  int `json:"presentYear"`
	TotalYear    int `json:"totalYear"`
	YearRate     int `json:"yearRate"`
}

// MemberStats: year년 month월(1~12) 기준 출석 통계를 계산합니다.
// 기록이 하나도 없으면 출석률은 0이다.
func MemberStats(m domain.Member, year int, month time.Month) Stats {
	yearPrefix := fmt.Sprintf("%04d-", year)
	monthPrefix := fmt.Sprintf("%04d-%02d-", year, int(month))

	var s Stats
	for date, status := range m.Attendance {
		if !strings.HasPrefix(date, yearPrefix) {
			continue
		}
		inMonth := strings.HasPrefix(date, monthPrefix)
		s.TotalYear++
		if inMonth {
			s.TotalMonth++
		}
		if status == domain.StatusPresent {
			s.PresentYear++
			if inMonth {
				s.PresentMonth++
			}
		}
	}
	s.MonthRate = Rate(s.PresentMonth, s.TotalMonth)
	s.YearRate = Rate(s.PresentYear, s.TotalYear)
	return s
}

// Rate: present/total*100을 반올림(0.5 올림)한 정수 백분율. total이 0이면 0.
func Rate(present, total int) int {
	if total <= 0 {
		return 0
	}
	return (present*200 + total) / (2 * total)
}

// MarkingDates: year년의 모든 weekday 날짜를 YYYY-MM-DD 문자열로 반환합니다. (연간 출석 체크 달력)
func MarkingDates(year int, weekday time.Weekday) []string {
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(day.Weekday()) + 7) % 7
	day = day.AddDate(0, 0, offset)

	dates := make([]string, 0, 53)
	for day.Year() == year {
		dates = append(dates, day.Format(domain.DateLayout))
		day = day.AddDate(0, 0, 7)
	}
	return dates
}
