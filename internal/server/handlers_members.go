package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

type listQuery struct {
	Position string `form:"position" binding:"omitempty,roster_position_filter"`
	Status   string `form:"status" binding:"omitempty,roster_status_filter"`
	Date     string `form:"date" binding:"omitempty,roster_date"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
}

// filter: 비어 있는 조건을 기본값(전체, 오늘)으로 채운다.
func (q listQuery) filter(today string) roster.Filter {
	f := roster.DefaultFilter(today)
	if q.Position != "" {
		f.Position = domain.Position(q.Position)
	}
	if q.Status != "" {
		f.Status = domain.AttendanceStatus(q.Status)
	}
	if q.Date != "" {
		f.Date = q.Date
	}
	return f
}

type listResponse struct {
	Members    []memberView  `json:"members"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	Total      int           `json:"total"`
	Counts     roster.Counts `json:"counts"`
	Filter     roster.Filter `json:"filter"`
}

type memberRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Position string `json:"position" binding:"required,roster_position"`
	Phone    string `json:"phone" binding:"required,roster_phone"`
}

type attendanceRequest struct {
	Status string `json:"status" binding:"roster_status"`
}

type statsQuery struct {
	Year  int `form:"year" binding:"omitempty,min=1900,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

type statsResponse struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Year  int          `json:"year"`
	Month int          `json:"month"`
	Stats roster.Stats `json:"stats"`
}

type countsQuery struct {
	Position string `form:"position" binding:"omitempty,roster_position_filter"`
	Date     string `form:"date" binding:"omitempty,roster_date"`
}

type calendarQuery struct {
	Year     int    `form:"year" binding:"omitempty,min=1900,max=9999"`
	Position string `form:"position" binding:"omitempty,roster_position_filter"`
}

type calendarDay struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

type calendarResponse struct {
	Year    int           `json:"year"`
	Weekday string        `json:"weekday"`
	Days    []calendarDay `json:"days"`
}

// ListPositions: 직분 목록을 표시 순서대로 반환합니다.
func (h *Handler) ListPositions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"positions": domain.Positions})
}

// ListMembers: 필터와 페이지를 적용한 명단과 조회 범위 집계를 반환합니다.
// page가 범위를 벗어나면 마지막 페이지로 당긴다.
func (h *Handler) ListMembers(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}

	filter := q.filter(h.today())
	members := h.store.Snapshot()
	filtered := roster.FilterRoster(members, filter)

	page := roster.ClampPage(max(q.Page, 1), len(filtered), h.pageSize)
	pageMembers := roster.Paginate(filtered, page, h.pageSize)

	views := make([]memberView, 0, len(pageMembers))
	for _, m := range pageMembers {
		views = append(views, h.view(m, filter.Date))
	}

	c.JSON(http.StatusOK, listResponse{
		Members:    views,
		Page:       page,
		PageSize:   h.pageSize,
		TotalPages: roster.TotalPages(len(filtered), h.pageSize),
		Total:      len(filtered),
		Counts:     roster.CountsForScope(members, filter.Position, filter.Date),
		Filter:     filter,
	})
}

// GetMember: 교인 한 명을 반환합니다.
func (h *Handler) GetMember(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	m, found := h.store.Get(id)
	if !found {
		abortMemberNotFound(c)
		return
	}
	c.JSON(http.StatusOK, h.view(m, h.today()))
}

// AddMember: 새 교인을 등록합니다. 출석 기록은 비어 있다.
func (h *Handler) AddMember(c *gin.Context) {
	var req memberRequest
	if !bindMember(c, &req) {
		return
	}

	m := h.store.Add(c.Request.Context(), req.Name, domain.Position(req.Position), req.Phone)
	h.syncMembers()
	c.JSON(http.StatusCreated, m)
}

// EditMember: 이름/직분/전화번호를 수정합니다. 출석 기록은 유지된다.
func (h *Handler) EditMember(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	var req memberRequest
	if !bindMember(c, &req) {
		return
	}

	if !h.store.Edit(c.Request.Context(), id, req.Name, domain.Position(req.Position), req.Phone) {
		abortMemberNotFound(c)
		return
	}
	m, _ := h.store.Get(id)
	c.JSON(http.StatusOK, m)
}

func bindMember(c *gin.Context, req *memberRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortBindError(c, err)
		return false
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		abortError(c, http.StatusBadRequest, CodeValidation, "name is required")
		return false
	}
	return true
}

// DeleteMember: 교인을 삭제합니다. 선택 목록에서도 빠진다.
func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	if !h.store.Delete(c.Request.Context(), id) {
		abortMemberNotFound(c)
		return
	}
	h.syncMembers()
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// SetAttendance: 날짜별 출석 상태를 기록합니다. status가 비어 있으면 기록을 지운다.
func (h *Handler) SetAttendance(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	date := c.Param("date")
	if !domain.IsDateKey(date) {
		abortError(c, http.StatusBadRequest, CodeValidation, "date must be YYYY-MM-DD")
		return
	}
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	found, err := h.store.SetAttendance(c.Request.Context(), id, date, domain.AttendanceStatus(req.Status))
	if err != nil {
		if errors.Is(err, roster.ErrInvalidDate) || errors.Is(err, roster.ErrInvalidStatus) {
			abortError(c, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		abortError(c, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	if !found {
		abortMemberNotFound(c)
		return
	}
	m, _ := h.store.Get(id)
	c.JSON(http.StatusOK, h.view(m, date))
}

// MemberStats: 교인 한 명의 월간/연간 출석 통계를 반환합니다. 기본값은 오늘이 속한 달.
func (h *Handler) MemberStats(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	var q statsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}

	m, found := h.store.Get(id)
	if !found {
		abortMemberNotFound(c)
		return
	}

	year, month := h.yearMonth()
	if q.Year != 0 {
		year = q.Year
	}
	if q.Month != 0 {
		month = time.Month(q.Month)
	}

	c.JSON(http.StatusOK, statsResponse{
		ID:    m.ID,
		Name:  m.Name,
		Year:  year,
		Month: int(month),
		Stats: roster.MemberStats(m, year, month),
	})
}

func (h *Handler) yearMonth() (int, time.Month) {
	t, err := domain.ParseDate(h.today())
	if err != nil {
		now := h.clock()
		return now.Year(), now.Month()
	}
	return t.Year(), t.Month()
}

// Counts: 직분 범위와 날짜 기준 출석/결석 집계를 반환합니다.
func (h *Handler) Counts(c *gin.Context) {
	var q countsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}
	position := domain.PositionAll
	if q.Position != "" {
		position = domain.Position(q.Position)
	}
	date := q.Date
	if date == "" {
		date = h.today()
	}

	c.JSON(http.StatusOK, gin.H{
		"position": position,
		"date":     date,
		"counts":   roster.CountsForScope(h.store.Snapshot(), position, date),
	})
}

// Calendar: 연간 출석 체크 요일 목록과 날짜별 집계를 반환합니다.
func (h *Handler) Calendar(c *gin.Context) {
	var q calendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}
	year, _ := h.yearMonth()
	if q.Year != 0 {
		year = q.Year
	}
	position := domain.PositionAll
	if q.Position != "" {
		position = domain.Position(q.Position)
	}

	members := h.store.Snapshot()
	dates := roster.MarkingDates(year, h.markingWeekday)
	days := make([]calendarDay, 0, len(dates))
	for _, date := range dates {
		counts := roster.CountsForScope(members, position, date)
		days = append(days, calendarDay{Date: date, Present: counts.Present, Absent: counts.Absent})
	}

	c.JSON(http.StatusOK, calendarResponse{
		Year:    year,
		Weekday: h.markingWeekday.String(),
		Days:    days,
	})
}
