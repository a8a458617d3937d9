package widget

import (
	"image"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

// Rectangle is a solid block of color.
type Rectangle struct {
	width  int
	height int
	color  pixel.Color
}

func NewRectangle(width, height int, color pixel.Color) *Rectangle {
	return &Rectangle{
		width:  max(width, 0),
		height: max(height, 0),
		color:  color,
	}
}

func Square(size int, color pixel.Color) *Rectangle {
	return NewRectangle(size, size, color)
}

func (r *Rectangle) Width() int  { return r.width }
func (r *Rectangle) Height() int { return r.height }

func (r *Rectangle) Color() pixel.Color     { return r.color }
func (r *Rectangle) SetColor(c pixel.Color) { r.color = c }

func (r *Rectangle) Contains(x, y int, in Input) Damage {
	return NoDamage
}

func (r *Rectangle) Draw(dst *pixel.Surface, x, y int) {
	dst.FillRect(image.Rect(x, y, x+r.width, y+r.height), r.color)
}
