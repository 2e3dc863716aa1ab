package itinerary

// Selection is an ordered set of itinerary item ids. It is a value: every
// change returns a new Selection.
type Selection struct {
	ids []string
}

// NewSelection builds a selection, dropping blanks and duplicates
func NewSelection(ids ...string) Selection {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return Selection{ids: out}
}

// SelectAll selects every item
func SelectAll(items []Item) Selection {
	return NewSelection(ItemIDsOf(items)...)
}

// Contains reports whether id is selected
func (s Selection) Contains(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of selected items
func (s Selection) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is selected
func (s Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// IDs returns a copy of the selected ids
func (s Selection) IDs() []string {
	return append([]string{}, s.ids...)
}

// Toggle adds id when absent and removes it when present
func (s Selection) Toggle(id string) Selection {
	if id == "" {
		return s
	}
	if !s.Contains(id) {
		return NewSelection(append(s.IDs(), id)...)
	}

	out := make([]string, 0, len(s.ids))
	for _, existing := range s.ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return Selection{ids: out}
}

// Resolve keeps only ids that name one of items, in itinerary order
func (s Selection) Resolve(items []Item) Selection {
	out := make([]string, 0, len(s.ids))
	for _, item := range items {
		if s.Contains(item.ID) {
			out = append(out, item.ID)
		}
	}
	return NewSelection(out...)
}

// Equal reports whether both selections hold the same ids in the same order
func (s Selection) Equal(other Selection) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for i := range s.ids {
		if s.ids[i] != other.ids[i] {
			return false
		}
	}
	return true
}
