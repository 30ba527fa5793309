package persistence

import "fmt"

// WriteError: 명단 저장 실패. 메모리 상태는 유지되므로 치명적이지 않다.
type WriteError struct {
	Backend string
	Key     string
	Err     error
}

func (e WriteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("persist roster failed backend=%s key=%s", e.Backend, e.Key)
	}
	return fmt.Sprintf("persist roster failed backend=%s key=%s: %v", e.Backend, e.Key, e.Err)
}

func (e WriteError) Unwrap() error { return e.Err }

// ReadError: 시작 시 저장된 명단 읽기 실패
type ReadError struct {
	Backend string
	Key     string
	Err     error
}

func (e ReadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load roster failed backend=%s key=%s", e.Backend, e.Key)
	}
	return fmt.Sprintf("load roster failed backend=%s key=%s: %v", e.Backend, e.Key, e.Err)
}

func (e ReadError) Unwrap() error { return e.Err }
