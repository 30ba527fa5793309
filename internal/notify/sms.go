// Package notify: 선택된 교인에게 보낼 단체 문자 intent를 만들고, 내보낸 명단을 카카오톡 방에 공유합니다.
package notify

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

// Recipients: ids에 해당하는 교인의 전화번호를 숫자만 남겨 반환합니다.
// 명단 순서를 따르며, 빈 번호와 중복 번호는 제외한다.
func Recipients(members []domain.Member, ids []int) []string {
	if len(ids) == 0 {
		return nil
	}
	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(ids))
	numbers := make([]string, 0, len(ids))
	for _, m := range members {
		if _, ok := wanted[m.ID]; !ok {
			continue
		}
		number := DigitsOnly(m.Phone)
		if number == "" {
			continue
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}
		numbers = append(numbers, number)
	}
	return numbers
}

// DigitsOnly: 문자열에서 0-9만 남긴다.
func DigitsOnly(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Intent: 단말의 문자 앱을 여는 sms: URI 정보
type Intent struct {
	Numbers []string `json:"numbers"`
	Body    string   `json:"body,omitempty"`
}

// URI: sms:번호1,번호2[?body=...] 형식의 URI를 만든다.
func (i Intent) URI() string {
	uri := "sms:" + strings.Join(i.Numbers, ",")
	if i.Body != "" {
		uri += "?body=" + url.QueryEscape(i.Body)
	}
	return uri
}

// Dispatcher: 만들어진 intent를 단말로 넘기는 수단
type Dispatcher interface {
	Dispatch(ctx context.Context, intent Intent) error
}

// LogDispatcher: intent를 로그로만 남긴다. URI는 API 응답으로 클라이언트에 전달된다.
type LogDispatcher struct {
	Logger *slog.Logger
}

func (d LogDispatcher) Dispatch(ctx context.Context, intent Intent) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "sms_intent_dispatched", slog.Int("recipients", len(intent.Numbers)))
	return nil
}

// Notifier: 선택된 교인의 번호로 intent를 만들어 Dispatcher에 넘긴다.
type Notifier struct {
	dispatcher Dispatcher
}

func NewNotifier(dispatcher Dispatcher) *Notifier {
	return &Notifier{dispatcher: dispatcher}
}

// Notify: 보낼 번호가 없으면 아무것도 하지 않고 ok=false를 반환합니다.
func (n *Notifier) Notify(ctx context.Context, members []domain.Member, ids []int, body string) (Intent, bool, error) {
	numbers := Recipients(members, ids)
	if len(numbers) == 0 {
		return Intent{}, false, nil
	}

	intent := Intent{Numbers: numbers, Body: body}
	if err := n.dispatcher.Dispatch(ctx, intent); err != nil {
		return intent, false, err
	}
	return intent, true, nil
}
