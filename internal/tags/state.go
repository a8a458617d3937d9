package tags

// Kind is how a single tag is displayed.
type Kind int

const (
	KindEmpty Kind = iota
	KindOccupied
	KindUrgent
	KindFocused
)

func (k Kind) String() string {
	switch k {
	case KindOccupied:
		return "occupied"
	case KindUrgent:
		return "urgent"
	case KindFocused:
		return "focused"
	default:
		return "empty"
	}
}

// State is the tag state of one bar. Views holds one mask per view in
// arrival order; duplicates are allowed.
type State struct {
	Focused Mask
	Urgent  Mask
	Views   []Mask
}

// IsFocused reports whether tag n is focused. Every bit of a multi-tag
// focus mask counts.
func (s State) IsFocused(n int) bool {
	return s.Focused.Has(n)
}

func (s State) IsUrgent(n int) bool {
	return s.Urgent.Has(n)
}

// IsOccupied reports whether any view is assigned to tag n.
func (s State) IsOccupied(n int) bool {
	for _, v := range s.Views {
		if v.Has(n) {
			return true
		}
	}
	return false
}

// Occupied folds every view into one mask.
func (s State) Occupied() Mask {
	var m Mask
	for _, v := range s.Views {
		m |= v
	}
	return m
}

// Kind returns how tag n is displayed; focused wins over urgent, urgent
// over occupied.
func (s State) Kind(n int) Kind {
	switch {
	case s.IsFocused(n):
		return KindFocused
	case s.IsUrgent(n):
		return KindUrgent
	case s.IsOccupied(n):
		return KindOccupied
	default:
		return KindEmpty
	}
}
