package bar

import "github.com/ItsNotGoodName/x-tagbar/internal/tags"

// Snapshot is a copy of the bar's state for readers outside the dispatch
// loop.
type Snapshot struct {
	Status   Status
	Visible  bool
	Focused  tags.Mask
	Primary  int
	Views    []tags.Mask
	Occupied tags.Mask
	Urgent   tags.Mask
	Width    int
	Height   int
}

func (s Snapshot) Configured() bool {
	return s.Status == StatusConfigured
}

// Snapshot must only be called from the dispatch loop.
func (a *App) Snapshot() Snapshot {
	state := a.State()

	primary, ok := tags.ResolveFocused(state.Focused)
	if !ok {
		primary = -1
	}

	width, height := a.canvas.Width(), a.canvas.Height()

	return Snapshot{
		Status:   a.status,
		Visible:  a.visible,
		Focused:  state.Focused,
		Primary:  primary,
		Views:    state.Views,
		Occupied: state.Occupied(),
		Urgent:   state.Urgent,
		Width:    width,
		Height:   height,
	}
}
