package widget

import (
	"image"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

// Background fills the area behind one child. Padding grows the filled
// area around the child; a non-zero inset cuts the corners diagonally.
type Background struct {
	child   Widget
	color   pixel.Color
	padding int
	inset   int
}

func NewBackground(child Widget, color pixel.Color, padding int) *Background {
	return &Background{
		child:   child,
		color:   color,
		padding: max(padding, 0),
	}
}

// SetInset sets how many pixels are cut from each corner.
func (b *Background) SetInset(inset int) {
	b.inset = max(inset, 0)
}

func (b *Background) Child() Widget { return b.child }

func (b *Background) Width() int  { return b.child.Width() + 2*b.padding }
func (b *Background) Height() int { return b.child.Height() + 2*b.padding }

func (b *Background) Color() pixel.Color     { return b.color }
func (b *Background) SetColor(c pixel.Color) { b.color = c }

func (b *Background) Contains(x, y int, in Input) Damage {
	if !Within(b.child, x-b.padding, y-b.padding) {
		return NoDamage
	}
	return b.child.Contains(x-b.padding, y-b.padding, in).Translate(b.padding, b.padding)
}

func (b *Background) Draw(dst *pixel.Surface, x, y int) {
	w, h := b.Width(), b.Height()
	inset := min(b.inset, w/2, h/2)

	if inset == 0 {
		dst.FillRect(image.Rect(x, y, x+w, y+h), b.color)
	} else {
		for row := 0; row < h; row++ {
			// Distance into the corner triangle, from the nearest horizontal edge.
			cut := 0
			if row < inset {
				cut = inset - row
			} else if row >= h-inset {
				cut = row - (h - inset) + 1
			}
			dst.FillRect(image.Rect(x+cut, y+row, x+w-cut, y+row+1), b.color)
		}
	}

	b.child.Draw(dst, x+b.padding, y+b.padding)
}
