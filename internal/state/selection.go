package state

import (
	"sort"
	"sync"
)

// Selection is the set of photo ids picked in a gallery. Any non-empty set
// switches the gallery into selection mode.
type Selection struct {
	mu  sync.Mutex
	ids map[int]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[int]struct{})}
}

// Toggle flips membership and reports whether the id is selected afterwards.
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

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int]struct{})
}

// Active reports selection mode (non-empty set).
func (s *Selection) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids) > 0
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Has reports membership of one id.
func (s *Selection) Has(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
