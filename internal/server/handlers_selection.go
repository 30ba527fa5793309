package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

type selectionFilter struct {
	Position string `json:"position" binding:"omitempty,roster_position_filter"`
	Status   string `json:"status" binding:"omitempty,roster_status_filter"`
	Date     string `json:"date" binding:"omitempty,roster_date"`
}

// selectionRequest: ids로 선택을 교체하거나, filter에 맞는 교인 전원을 선택한다.
type selectionRequest struct {
	IDs    []int            `json:"ids"`
	Filter *selectionFilter `json:"filter"`
}

type selectionResponse struct {
	IDs   []int `json:"ids"`
	Count int   `json:"count"`
}

type notifyRequest struct {
	IDs  []int  `json:"ids"`
	Body string `json:"body" binding:"max=1000"`
}

type notifyResponse struct {
	Dispatched bool     `json:"dispatched"`
	URI        string   `json:"uri,omitempty"`
	Recipients []string `json:"recipients"`
}

func (h *Handler) selectionResponse() selectionResponse {
	ids := h.selection.IDs()
	return selectionResponse{IDs: ids, Count: len(ids)}
}

// GetSelection: 선택된 교인 id 목록을 반환합니다.
func (h *Handler) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, h.selectionResponse())
}

// ReplaceSelection: 선택 목록을 교체합니다. 명단에 없는 id는 무시한다.
func (h *Handler) ReplaceSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	members := h.store.Snapshot()
	if req.Filter != nil {
		q := listQuery{Position: req.Filter.Position, Status: req.Filter.Status, Date: req.Filter.Date}
		h.selection.SelectAll(roster.FilterRoster(members, q.filter(h.today())))
		c.JSON(http.StatusOK, h.selectionResponse())
		return
	}

	known := make(map[int]struct{}, len(members))
	for _, m := range members {
		known[m.ID] = struct{}{}
	}
	ids := make([]int, 0, len(req.IDs))
	for _, id := range req.IDs {
		if _, ok := known[id]; ok {
			ids = append(ids, id)
		}
	}
	h.selection.Replace(ids)
	c.JSON(http.StatusOK, h.selectionResponse())
}

// ClearSelection: 선택을 모두 해제합니다.
func (h *Handler) ClearSelection(c *gin.Context) {
	h.selection.Clear()
	c.JSON(http.StatusOK, h.selectionResponse())
}

// ToggleSelection: 교인 한 명의 선택 상태를 뒤집습니다.
func (h *Handler) ToggleSelection(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	if _, found := h.store.Get(id); !found {
		abortMemberNotFound(c)
		return
	}
	selected := h.selection.Toggle(id)
	c.JSON(http.StatusOK, gin.H{"id": id, "selected": selected})
}

// Notify: 선택된 교인에게 보낼 단체 문자 intent를 만듭니다.
// ids가 비어 있으면 현재 선택 목록을 사용한다. 보낼 번호가 없으면 dispatched=false.
func (h *Handler) Notify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}
	ids := req.IDs
	if len(ids) == 0 {
		ids = h.selection.IDs()
	}

	intent, dispatched, err := h.notifier.Notify(c.Request.Context(), h.store.Snapshot(), ids, req.Body)
	if err != nil {
		abortError(c, http.StatusBadGateway, CodeInternal, err.Error())
		return
	}
	if !dispatched {
		c.JSON(http.StatusOK, notifyResponse{Recipients: []string{}})
		return
	}

	h.metrics.NotificationDispatched()
	c.JSON(http.StatusOK, notifyResponse{
		Dispatched: true,
		URI:        intent.URI(),
		Recipients: intent.Numbers,
	})
}
