package widget

import (
	"fmt"
	"image"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// List lays children out along one axis with a margin around them and
// spacing between them. Children are centred on the cross axis.
//
// Sizes are derived from the children on every call, never cached, so a
// replaced child is reflected immediately.
type List struct {
	orientation Orientation
	margin      int
	spacing     int
	color       pixel.Color
	children    []Widget
}

func NewList(orientation Orientation) *List {
	return &List{orientation: orientation}
}

func (l *List) Orientation() Orientation { return l.orientation }

func (l *List) SetMargin(margin int)   { l.margin = max(margin, 0) }
func (l *List) SetSpacing(spacing int) { l.spacing = max(spacing, 0) }

func (l *List) Color() pixel.Color     { return l.color }
func (l *List) SetColor(c pixel.Color) { l.color = c }

func (l *List) Add(w Widget) error {
	if w == nil {
		return ErrNilWidget
	}
	l.children = append(l.children, w)
	return nil
}

// Replace swaps the child at i and returns the old one.
func (l *List) Replace(i int, w Widget) (Widget, error) {
	if w == nil {
		return nil, ErrNilWidget
	}
	if i < 0 || i >= len(l.children) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(l.children))
	}
	old := l.children[i]
	l.children[i] = w
	return old, nil
}

func (l *List) Remove(i int) (Widget, error) {
	if i < 0 || i >= len(l.children) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(l.children))
	}
	old := l.children[i]
	l.children = append(l.children[:i], l.children[i+1:]...)
	return old, nil
}

func (l *List) Len() int { return len(l.children) }

func (l *List) Child(i int) Widget {
	if i < 0 || i >= len(l.children) {
		return nil
	}
	return l.children[i]
}

// extents returns the size along the layout axis and across it.
func (l *List) extents() (main, cross int) {
	for i, child := range l.children {
		w, h := child.Width(), child.Height()
		if l.orientation == Vertical {
			w, h = h, w
		}
		main += w
		if i > 0 {
			main += l.spacing
		}
		cross = max(cross, h)
	}
	return main + 2*l.margin, cross + 2*l.margin
}

func (l *List) Width() int {
	main, cross := l.extents()
	if l.orientation == Vertical {
		return cross
	}
	return main
}

func (l *List) Height() int {
	main, cross := l.extents()
	if l.orientation == Vertical {
		return main
	}
	return cross
}

// Offsets returns where each child is placed, relative to the list.
func (l *List) Offsets() []image.Point {
	_, cross := l.extents()
	inner := cross - 2*l.margin

	points := make([]image.Point, len(l.children))
	pos := l.margin
	for i, child := range l.children {
		if l.orientation == Vertical {
			points[i] = image.Pt(l.margin+(inner-child.Width())/2, pos)
			pos += child.Height() + l.spacing
		} else {
			points[i] = image.Pt(pos, l.margin+(inner-child.Height())/2)
			pos += child.Width() + l.spacing
		}
	}
	return points
}

func (l *List) Contains(x, y int, in Input) Damage {
	for i, p := range l.Offsets() {
		child := l.children[i]
		if Within(child, x-p.X, y-p.Y) {
			return child.Contains(x-p.X, y-p.Y, in).Translate(p.X, p.Y)
		}
	}
	return NoDamage
}

func (l *List) Draw(dst *pixel.Surface, x, y int) {
	if l.color != pixel.Transparent {
		dst.FillRect(image.Rect(x, y, x+l.Width(), y+l.Height()), l.color)
	}
	for i, p := range l.Offsets() {
		l.children[i].Draw(dst, x+p.X, y+p.Y)
	}
}
