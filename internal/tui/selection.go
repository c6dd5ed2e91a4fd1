package tui

// selectionSet holds the chosen photo indices in pick order. The order is
// meaningful: it decides each photo's slot in the final collage.
type selectionSet struct {
	indices []int
	limit   int
}

func newSelectionSet(limit int) selectionSet {
	return selectionSet{limit: limit}
}

// Toggle removes index when present, appends it when there is room, and
// no-ops at the limit. Returns whether anything changed.
func (s *selectionSet) Toggle(index int) bool {
	for i, existing := range s.indices {
		if existing == index {
			s.indices = append(s.indices[:i], s.indices[i+1:]...)
			return true
		}
	}
	if len(s.indices) >= s.limit {
		return false
	}
	s.indices = append(s.indices, index)
	return true
}

// Rank returns the 1-based pick order of index, or 0 when unselected.
func (s *selectionSet) Rank(index int) int {
	for i, existing := range s.indices {
		if existing == index {
			return i + 1
		}
	}
	return 0
}

func (s *selectionSet) Len() int { return len(s.indices) }

// Complete reports whether the set holds exactly the required count.
func (s *selectionSet) Complete() bool { return len(s.indices) == s.limit }

// Indices returns the picks in order. The caller must not mutate the slice.
func (s *selectionSet) Indices() []int { return s.indices }

func (s *selectionSet) Clear() { s.indices = nil }
