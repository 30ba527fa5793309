package server

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
	"github.com/tem1004-eng/chulseuk-7/internal/metrics"
	"github.com/tem1004-eng/chulseuk-7/internal/notify"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

const defaultPageSize = 10

// Handler: 출석부 API 핸들러
type Handler struct {
	store     *roster.Store
	selection *roster.Selection
	notifier  *notify.Notifier
	sharer    Sharer
	metrics   *metrics.Metrics
	logger    *slog.Logger
	clock     domain.Clock

	pageSize       int
	markingWeekday time.Weekday
}

func newHandler(opts Options) *Handler {
	h := &Handler{
		store:          opts.Store,
		selection:      opts.Selection,
		notifier:       opts.Notifier,
		sharer:         opts.Sharer,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		clock:          opts.Clock,
		pageSize:       opts.PageSize,
		markingWeekday: opts.MarkingWeekday,
	}
	if h.selection == nil {
		h.selection = roster.NewSelection()
		h.store.OnDelete(h.selection.Remove)
	}
	if h.notifier == nil {
		h.notifier = notify.NewNotifier(notify.LogDispatcher{Logger: opts.Logger})
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.clock == nil {
		h.clock = time.Now
	}
	if h.pageSize < 1 {
		h.pageSize = defaultPageSize
	}
	h.metrics.SetMembers(h.store.Len())
	return h
}

func (h *Handler) today() string {
	return domain.TodayKST(h.clock())
}

func (h *Handler) syncMembers() {
	h.metrics.SetMembers(h.store.Len())
}

// memberID: 경로의 :id를 정수로 읽는다. 실패하면 400 응답 후 false.
func memberID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		abortError(c, 400, CodeValidation, "invalid member id")
		return 0, false
	}
	return id, true
}

// memberView: 목록 응답의 교인 한 명. 조회 날짜의 상태와 선택 여부를 포함한다.
type memberView struct {
	domain.Member
	Status   domain.AttendanceStatus `json:"status"`
	Selected bool                    `json:"selected"`
}

func (h *Handler) view(m domain.Member, date string) memberView {
	status, _ := m.StatusOn(date)
	return memberView{
		Member:   m,
		Status:   status,
		Selected: h.selection.Contains(m.ID),
	}
}
