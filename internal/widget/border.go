package widget

import (
	"image"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

// Border frames one child with a fixed-width colored border.
type Border struct {
	child Widget
	size  int
	color pixel.Color
}

func NewBorder(child Widget, size int, color pixel.Color) *Border {
	return &Border{
		child: child,
		size:  max(size, 0),
		color: color,
	}
}

func (b *Border) Child() Widget { return b.child }

func (b *Border) Width() int  { return b.child.Width() + 2*b.size }
func (b *Border) Height() int { return b.child.Height() + 2*b.size }

func (b *Border) Color() pixel.Color     { return b.color }
func (b *Border) SetColor(c pixel.Color) { b.color = c }

func (b *Border) Contains(x, y int, in Input) Damage {
	if !Within(b.child, x-b.size, y-b.size) {
		return NoDamage
	}
	return b.child.Contains(x-b.size, y-b.size, in).Translate(b.size, b.size)
}

func (b *Border) Draw(dst *pixel.Surface, x, y int) {
	w, h, s := b.Width(), b.Height(), b.size
	dst.FillRect(image.Rect(x, y, x+w, y+s), b.color)         // top
	dst.FillRect(image.Rect(x, y+h-s, x+w, y+h), b.color)     // bottom
	dst.FillRect(image.Rect(x, y+s, x+s, y+h-s), b.color)     // left
	dst.FillRect(image.Rect(x+w-s, y+s, x+w, y+h-s), b.color) // right
	b.child.Draw(dst, x+s, y+s)
}
