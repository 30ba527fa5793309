package roster

import (
	"slices"
	"sync"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

// Selection: 단체 문자 발송 대상으로 체크된 교인 id 집합
// 여러 요청에서 동시에 사용해도 안전하다.
type Selection struct {
	mu  sync.Mutex
	ids map[int]struct{}
}

// NewSelection: 빈 선택 집합을 만듭니다.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int]struct{})}
}

// Toggle: id의 선택 상태를 뒤집고, 뒤집은 후 선택 여부를 반환합니다.
func (s *Selection) Toggle(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Add(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

func (s *Selection) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

func (s *Selection) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Replace: 선택 집합을 ids로 통째로 바꿉니다. (전체 선택)
func (s *Selection) Replace(ids []int) {
	next := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.mu.Lock()
	s.ids = next
	s.mu.Unlock()
}

// SelectAll: 주어진 (필터링된) 교인 전원을 선택합니다.
func (s *Selection) SelectAll(members []domain.Member) {
	ids := make([]int, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	s.Replace(ids)
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.ids)
}

// IDs: 선택된 id를 오름차순으로 반환합니다.
func (s *Selection) IDs() []int {
	s.mu.Lock()
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	slices.Sort(ids)
	return ids
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
