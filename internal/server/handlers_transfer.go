package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tem1004-eng/chulseuk-7/internal/metrics"
	"github.com/tem1004-eng/chulseuk-7/internal/roster"
	"github.com/tem1004-eng/chulseuk-7/internal/transfer"
)

// maxImportBytes: 가져오기 요청 본문 최대 크기
const maxImportBytes = 5 << 20

type exportQuery struct {
	Share bool `form:"share"`
}

type importQuery struct {
	Confirm bool `form:"confirm"`
}

type importPreviewResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Members int    `json:"members"`
}

type importResponse struct {
	Imported int           `json:"imported"`
	Filter   roster.Filter `json:"filter"`
}

// Export: 명단 전체를 들여쓴 JSON 첨부 파일로 내려줍니다.
// share=true이면 등록된 공유 채널로도 보낸다. 공유 실패는 X-Share-Failed 헤더로 알린다.
func (h *Handler) Export(c *gin.Context) {
	var q exportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}

	payload, err := roster.Export(h.store.Snapshot())
	if err != nil {
		abortError(c, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	fileName := transfer.ExportFileName(h.today())

	if q.Share && h.sharer != nil {
		failed := transfer.RunCompanions(c.Request.Context(), h.logger, fileName, payload, transfer.Companion{
			Name: "iris",
			Run:  h.sharer.Share,
		})
		if len(failed) > 0 {
			c.Header("X-Share-Failed", strings.Join(failed, ","))
		}
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Import: 업로드된 JSON을 검증하고 명단 전체를 교체합니다.
// confirm=true가 없으면 교체하지 않고 409로 인원 수만 알려준다.
// 거부된 파일은 현재 명단을 건드리지 않는다.
func (h *Handler) Import(c *gin.Context) {
	var q importQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortError(c, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "import file is too large")
			return
		}
		readErr := transfer.FileReadError{Path: "request body", Err: err}
		h.logger.WarnContext(c.Request.Context(), "import_read_failed", slog.Any("error", readErr))
		abortError(c, http.StatusBadRequest, CodeFileRead, readErr.Message())
		return
	}

	members, err := roster.ParseAndValidate(body)
	if err != nil {
		h.metrics.ImportAttempted(metrics.ImportRejected)
		h.logger.WarnContext(c.Request.Context(), "import_rejected", slog.Any("error", err))
		if !abortImportError(c, err) {
			abortError(c, http.StatusInternalServerError, CodeInternal, err.Error())
		}
		return
	}

	if !q.Confirm {
		h.metrics.ImportAttempted(metrics.ImportPreviewed)
		c.AbortWithStatusJSON(http.StatusConflict, importPreviewResponse{
			Error:   CodeConfirmationRequired,
			Message: fmt.Sprintf("현재 명단을 %d명의 데이터로 교체합니다. confirm=true로 다시 요청하세요.", len(members)),
			Members: len(members),
		})
		return
	}

	h.store.BulkReplace(c.Request.Context(), members)
	h.selection.Clear()
	h.metrics.ImportAttempted(metrics.ImportApplied)
	h.syncMembers()

	c.JSON(http.StatusOK, importResponse{
		Imported: len(members),
		Filter:   roster.DefaultFilter(h.today()),
	})
}
