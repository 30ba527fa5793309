package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// ReplyRequest: Iris /reply 요청 본문
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

// IrisError: Iris 호출 실패
type IrisError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e IrisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("iris error operation=%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("iris error operation=%s status=%d", e.Operation, e.StatusCode)
}

func (e IrisError) Unwrap() error { return e.Err }

// shareMinInterval: 연속 공유 사이 최소 간격
const shareMinInterval = 500 * time.Millisecond

// IrisSharer: 내보낸 명단을 Iris를 통해 카카오톡 방에 텍스트로 보낸다.
// 전송 간격을 제한하며, 실패해도 재시도하지 않는다.
type IrisSharer struct {
	client  *http.Client
	baseURL string
	room    string
	logger  *slog.Logger
	limiter *rate.Limiter
}

// NewIrisSharer: 새로운 IrisSharer를 생성합니다.
func NewIrisSharer(client *http.Client, baseURL, room string, logger *slog.Logger) *IrisSharer {
	if logger == nil {
		logger = slog.Default()
	}
	return &IrisSharer{
		client:  client,
		baseURL: baseURL,
		room:    room,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(shareMinInterval), 1),
	}
}

// Share: 파일 이름을 첫 줄로 하고 내용을 이어 붙여 전송합니다.
func (s *IrisSharer) Share(ctx context.Context, fileName string, payload []byte) error {
	body, err := json.Marshal(ReplyRequest{
		Type: "text",
		Room: s.room,
		Data: fileName + "\n" + string(payload),
	})
	if err != nil {
		return IrisError{Operation: "marshal_reply", Err: err}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return IrisError{Operation: "rate_limit", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/reply", bytes.NewReader(body))
	if err != nil {
		return IrisError{Operation: "build_request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return IrisError{Operation: "send_reply", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return IrisError{Operation: "send_reply", StatusCode: resp.StatusCode}
	}

	s.logger.InfoContext(ctx, "roster_shared", slog.String("room", s.room), slog.String("file", fileName))
	return nil
}
