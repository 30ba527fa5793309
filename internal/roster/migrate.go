package roster

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// MigrateLegacy: 예전 형식(status 필드 하나)으로 저장된 레코드를 attendance 맵 형식으로 바꿉니다.
// attendance가 없고 status가 있는 레코드는 attendance = {today: status}가 되며 status는 삭제된다.
// status가 빈 문자열(미체크)이거나 문자열이 아니면(null, 숫자 등) 빈 attendance가 된다.
// 배열이 아니거나 변환할 레코드가 없으면 raw를 그대로 반환한다.
func MigrateLegacy(raw any, today string) (any, int) {
	items, ok := raw.([]any)
	if !ok {
		return raw, 0
	}

	migrated := 0
	out := make([]any, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			out[i] = item
			continue
		}
		rawStatus, hasStatus := obj["status"]
		if _, hasAttendance := obj["attendance"]; hasAttendance || !hasStatus {
			out[i] = item
			continue
		}

		next := make(map[string]any, len(obj))
		for k, v := range obj {
			if k == "status" {
				continue
			}
			next[k] = v
		}
		attendance := map[string]any{}
		if status, ok := rawStatus.(string); ok && status != "" {
			attendance[today] = status
		}
		next["attendance"] = attendance
		out[i] = next
		migrated++
	}
	return out, migrated
}

// decodeStored: 저장소에서 읽은 JSON을 검증기 입력용 값으로 디코딩합니다.
func decodeStored(payload []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, MalformedJSONError{Err: err}
	}
	return raw, nil
}
