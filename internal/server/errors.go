package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tem1004-eng/chulseuk-7/internal/roster"
)

// 에러 코드
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeMalformedJSON        = "MALFORMED_JSON"
	CodeNotFound             = "NOT_FOUND"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeFileRead             = "FILE_READ_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
)

// ErrorResponse: 표준 에러 응답
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// abortBindError: 요청 바인딩 실패를 400으로 응답한다.
func abortBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		abortError(c, http.StatusBadRequest, CodeValidation, verrs.Error())
		return
	}
	abortError(c, http.StatusBadRequest, CodeMalformedJSON, err.Error())
}

// abortImportError: 가져오기 데이터 거부를 400으로 응답한다. 거부가 아니면 false.
func abortImportError(c *gin.Context, err error) bool {
	var verr *roster.ValidationError
	if errors.As(err, &verr) {
		abortError(c, http.StatusBadRequest, string(verr.Code), verr.Message())
		return true
	}
	var merr roster.MalformedJSONError
	if errors.As(err, &merr) {
		abortError(c, http.StatusBadRequest, CodeMalformedJSON, "JSON 형식이 올바르지 않습니다.")
		return true
	}
	return false
}

func abortMemberNotFound(c *gin.Context) {
	abortError(c, http.StatusNotFound, CodeNotFound, "member not found")
}
