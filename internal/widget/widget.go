// Package widget is a small retained-mode widget tree. Every widget knows
// its size, draws itself into a pixel.Surface at an offset, and reacts to
// pointer input with a Damage describing what changed on screen.
package widget

import (
	"errors"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

var (
	ErrDoesNotFit = errors.New("widget does not fit")
	ErrOutOfRange = errors.New("child index out of range")
	ErrNilWidget  = errors.New("nil widget")
)

type Geometry interface {
	Width() int
	Height() int
	// Contains handles pointer input at (x, y), relative to the widget's
	// top-left corner.
	Contains(x, y int, in Input) Damage
}

type Drawable interface {
	// Draw renders the widget into dst with its top-left corner at (x, y).
	Draw(dst *pixel.Surface, x, y int)
}

type Widget interface {
	Geometry
	Drawable
}

// Colorable widgets have a pixel content that can be replaced.
type Colorable interface {
	Color() pixel.Color
	SetColor(c pixel.Color)
}

// Within reports whether (x, y) lies inside w placed at the origin.
func Within(w Geometry, x, y int) bool {
	return x >= 0 && y >= 0 && x < w.Width() && y < w.Height()
}

// ToSurface renders w into a new surface of its own size.
func ToSurface(w Widget) *pixel.Surface {
	s := pixel.NewSurface(w.Width(), w.Height())
	w.Draw(s, 0, 0)
	return s
}

type InputKind int

const (
	InputMotion InputKind = iota
	InputPress
	InputRelease
	InputEnter
	InputLeave
)

func (k InputKind) String() string {
	switch k {
	case InputPress:
		return "press"
	case InputRelease:
		return "release"
	case InputEnter:
		return "enter"
	case InputLeave:
		return "leave"
	default:
		return "motion"
	}
}

// Input is a pointer event.
type Input struct {
	Kind   InputKind
	Button uint32
	Time   uint32
}
