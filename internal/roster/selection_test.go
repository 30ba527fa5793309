package roster

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()

	if !s.Toggle(3) {
		t.Error("first toggle should select")
	}
	if !s.Contains(3) {
		t.Error("expected 3 selected")
	}
	if s.Toggle(3) {
		t.Error("second toggle should deselect")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty selection, got %v", s.IDs())
	}
}

func TestSelection_SelectAllAndClear(t *testing.T) {
	s := NewSelection()
	s.Add(99)

	filtered := FilterRoster(viewMembers(), Filter{Position: domain.PositionDeacon})
	s.SelectAll(filtered)
	if diff := cmp.Diff([]int{1, 3}, s.IDs()); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty selection, got %v", s.IDs())
	}
}

func TestSelection_Concurrent(t *testing.T) {
	s := NewSelection()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(i)
			_ = s.IDs()
		}()
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Errorf("expected 50 ids, got %d", s.Len())
	}
}
