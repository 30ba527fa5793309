package valkeyx

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// GetBytes: 키의 값을 바이트로 읽는다. 키가 없으면 ok=false.
func GetBytes(ctx context.Context, client valkey.Client, key string) ([]byte, bool, error) {
	raw, err := client.Do(ctx, client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("valkey get %s failed: %w", key, err)
	}
	return raw, true, nil
}

// SetString: 만료 없이 키에 값을 저장한다.
func SetString(ctx context.Context, client valkey.Client, key, value string) error {
	if err := client.Do(ctx, client.B().Set().Key(key).Value(value).Build()).Error(); err != nil {
		return fmt.Errorf("valkey set %s failed: %w", key, err)
	}
	return nil
}
