package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/width"

	"github.com/tem1004-eng/chulseuk-7/internal/config"
	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

var (
	listPosition string
	listStatus   string
	listDate     string
	listPage     int

	statsYear  int
	statsMonth int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "명단 조회 (직분/출석 상태/날짜 필터, 페이지)",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "교인 한 명의 월간/연간 출석 통계",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	listCmd.Flags().StringVar(&listPosition, "position", "all", "직분 필터 (all 또는 직분 이름)")
	listCmd.Flags().StringVar(&listStatus, "status", "all", "출석 상태 필터 (all, 출석, 결석)")
	listCmd.Flags().StringVar(&listDate, "date", "", "조회 날짜 YYYY-MM-DD (기본: 오늘)")
	listCmd.Flags().IntVar(&listPage, "page", 1, "페이지 번호")

	statsCmd.Flags().IntVar(&statsYear, "year", 0, "연도 (기본: 올해)")
	statsCmd.Flags().IntVar(&statsMonth, "month", 0, "월 1-12 (기본: 이번 달)")
}

// listFilter: 플래그를 검사해 조회 조건을 만든다.
func listFilter() (roster.Filter, error) {
	f := roster.DefaultFilter(today())

	position := domain.Position(strings.TrimSpace(listPosition))
	if position != "" && position != domain.PositionAll && !position.Valid() {
		return f, fmt.Errorf("알 수 없는 직분입니다: %s", position)
	}
	if position != "" {
		f.Position = position
	}

	status := domain.AttendanceStatus(strings.TrimSpace(listStatus))
	if status != "" && status != domain.StatusAll && !status.Valid() {
		return f, fmt.Errorf("알 수 없는 출석 상태입니다: %s", status)
	}
	if status != "" {
		f.Status = status
	}

	if listDate != "" {
		if !domain.IsDateKey(listDate) {
			return f, fmt.Errorf("날짜 형식이 올바르지 않습니다: %s", listDate)
		}
		f.Date = listDate
	}
	return f, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	filter, err := listFilter()
	if err != nil {
		return err
	}

	return withStore(commandContext(cmd), func(cfg *config.Config, store *roster.Store, _ *slog.Logger) error {
		pageSize := cfg.Roster.PageSize
		if pageSize < 1 {
			pageSize = 10
		}

		members := store.Snapshot()
		filtered := roster.FilterRoster(members, filter)
		page := roster.ClampPage(listPage, len(filtered), pageSize)
		counts := roster.CountsForScope(members, filter.Position, filter.Date)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s 기준  전체 %d명 / 출석 %d명 / 결석 %d명\n", filter.Date, counts.Total, counts.Present, counts.Absent)
		writeMemberTable(out, roster.Paginate(filtered, page, pageSize), filter.Date)
		fmt.Fprintf(out, "%d / %d 페이지 (검색 결과 %d명)\n", page, max(roster.TotalPages(len(filtered), pageSize), 1), len(filtered))
		return nil
	})
}

func writeMemberTable(out io.Writer, members []domain.Member, date string) {
	fmt.Fprintf(out, "%4s  %s  %s  %s  %s\n", "ID", pad("이름", 12), pad("직분", 8), pad("전화번호", 15), "상태")
	for _, m := range members {
		status := "-"
		if s, ok := m.StatusOn(date); ok {
			status = string(s)
		}
		fmt.Fprintf(out, "%4d  %s  %s  %s  %s\n", m.ID, pad(m.Name, 12), pad(string(m.Position), 8), pad(m.Phone, 15), status)
	}
}

// pad: 한글 등 전각 문자를 2칸으로 계산해 오른쪽을 공백으로 채운다.
func pad(s string, cols int) string {
	w := displayWidth(s)
	if w >= cols {
		return s
	}
	return s + strings.Repeat(" ", cols-w)
}

func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func runStats(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("id는 숫자여야 합니다: %s", args[0])
	}
	if statsMonth < 0 || statsMonth > 12 {
		return fmt.Errorf("월은 1-12 사이여야 합니다: %d", statsMonth)
	}

	return withStore(commandContext(cmd), func(_ *config.Config, store *roster.Store, _ *slog.Logger) error {
		m, ok := store.Get(id)
		if !ok {
			return fmt.Errorf("id %d 교인을 찾을 수 없습니다", id)
		}

		current := now()
		year, month := current.Year(), current.Month()
		if statsYear != 0 {
			year = statsYear
		}
		if statsMonth != 0 {
			month = time.Month(statsMonth)
		}

		s := roster.MemberStats(m, year, month)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", m.Name, m.Position)
		fmt.Fprintf(out, "%d년 %d월: %d/%d회 출석 (%d%%)\n", year, int(month), s.PresentMonth, s.TotalMonth, s.MonthRate)
		fmt.Fprintf(out, "%d년 전체: %d/%d회 출석 (%d%%)\n", year, s.PresentYear, s.TotalYear, s.YearRate)
		return nil
	})
}
