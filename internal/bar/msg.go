package bar

import (
	"github.com/ItsNotGoodName/x-tagbar/internal/tags"
	"github.com/ItsNotGoodName/x-tagbar/internal/widget"
)

// Msg is anything sent to the App's dispatch loop. Types not listed in
// this file are orphan events.
type Msg interface{}

type (
	// Configure is the display server's size offer. A zero dimension lets
	// the bar pick its own size.
	Configure struct {
		Serial uint32
		Width  int
		Height int
	}

	// FocusedTags is the focused tag mask of an output.
	FocusedTags struct {
		Output string
		Tags   tags.Mask
	}

	// ViewTags is the tag mask of every view on an output, encoded as
	// little-endian 32-bit groups.
	ViewTags struct {
		Output string
		Tags   []byte
	}

	// UrgentTags is the mask of tags holding an urgent view.
	UrgentTags struct {
		Output string
		Tags   tags.Mask
	}

	// TagUpdate changes several tag states of an output with a single
	// redraw. Nil fields are left unchanged; an empty non-nil Views means
	// the output has no views.
	TagUpdate struct {
		Output  string
		Focused *tags.Mask
		Views   []byte
		Urgent  *tags.Mask
	}

	// Pointer is pointer input relative to the surface.
	Pointer struct {
		X     int
		Y     int
		Input widget.Input
	}

	// Expose asks for the current frame to be shown again.
	Expose struct{}

	// BufferRelease hands the buffer at Offset back to the pool.
	BufferRelease struct {
		Offset int
	}

	Show struct{}

	// Hide hides the bar. A non-zero Generation comes from the auto-hide
	// timer and is ignored when the bar was shown again since.
	Hide struct {
		Generation uint64
	}

	// Closed is sent once the display server destroyed the surface.
	Closed struct{}
)
