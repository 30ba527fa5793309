package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func lookupTrimmed(key string) (string, bool) {
	rawValue, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	rawValue = strings.TrimSpace(rawValue)
	return rawValue, rawValue != ""
}

// IntFromEnv: 환경 변수에서 정수 값을 읽어옵니다.
func IntFromEnv(key string, defaultValue int) (int, error) {
	rawValue, ok := lookupTrimmed(key)
	if !ok {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(rawValue)
	if err != nil {
		return 0, fmt.Errorf("invalid int env %s=%q: %w", key, rawValue, err)
	}
	return value, nil
}

// Float64FromEnv: 환경 변수에서 실수 값을 읽어옵니다.
func Float64FromEnv(key string, defaultValue float64) (float64, error) {
	rawValue, ok := lookupTrimmed(key)
	if !ok {
		return defaultValue, nil
	}

	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float64 env %s=%q: %w", key, rawValue, err)
	}
	return value, nil
}

// DurationMillisFromEnv: 환경 변수에서 밀리초 단위 시간을 읽어 Duration으로 변환합니다.
func DurationMillisFromEnv(key string, defaultMillis int64) (time.Duration, error) {
	valueMillis := defaultMillis
	if rawValue, ok := lookupTrimmed(key); ok {
		parsed, err := strconv.ParseInt(rawValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid int64 env %s=%q: %w", key, rawValue, err)
		}
		valueMillis = parsed
	}
	if valueMillis < 0 {
		return 0, fmt.Errorf("invalid duration millis env %s=%d", key, valueMillis)
	}
	return time.Duration(valueMillis) * time.Millisecond, nil
}

// BoolFromEnv: 환경 변수에서 불리언 값을 읽어옵니다. (true/1/yes/y, false/0/no/n)
func BoolFromEnv(key string, defaultValue bool) (bool, error) {
	rawValue, ok := lookupTrimmed(key)
	if !ok {
		return defaultValue, nil
	}

	switch strings.ToLower(rawValue) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool env %s=%q", key, rawValue)
	}
}

// StringFromEnv: 환경 변수에서 문자열 값을 읽어옵니다.
func StringFromEnv(key string, defaultValue string) string {
	if rawValue, ok := lookupTrimmed(key); ok {
		return rawValue
	}
	return defaultValue
}

// StringListFromEnv: 콤마/공백으로 구분된 문자열 목록을 읽어옵니다.
func StringListFromEnv(key string, defaultValue []string) []string {
	rawValue, ok := lookupTrimmed(key)
	if !ok {
		return defaultValue
	}

	items := strings.FieldsFunc(rawValue, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// StringFromEnvFirstNonEmpty: 여러 환경 변수 키 중 첫 번째로 값이 존재하는 것을 반환합니다.
func StringFromEnvFirstNonEmpty(keys []string, defaultValue string) string {
	for _, key := range keys {
		if rawValue, ok := lookupTrimmed(key); ok {
			return rawValue
		}
	}
	return defaultValue
}
