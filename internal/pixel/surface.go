package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// BytesPerPixel of the ARGB8888 format used by every surface.
const BytesPerPixel = 4

var ErrStride = errors.New("stride smaller than width*4")

// Surface is a rectangular block of ARGB8888 pixels stored little-endian
// (B, G, R, A in memory), the layout shared memory buffers use on both
// wl_shm and X11 ZPixmap at depth 24/32.
type Surface struct {
	width  int
	height int
	stride int
	pix    []byte
}

// NewSurface allocates a zeroed (fully transparent) surface.
func NewSurface(width, height int) *Surface {
	width, height = max(width, 0), max(height, 0)
	return &Surface{
		width:  width,
		height: height,
		stride: width * BytesPerPixel,
		pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// Wrap creates a surface over existing memory without copying it.
func Wrap(width, height, stride int, pix []byte) (*Surface, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	if stride < width*BytesPerPixel {
		return nil, fmt.Errorf("%w: stride=%d width=%d", ErrStride, stride, width)
	}
	if len(pix) < stride*height {
		return nil, fmt.Errorf("pixel memory too small: have %d, need %d", len(pix), stride*height)
	}
	return &Surface{
		width:  width,
		height: height,
		stride: stride,
		pix:    pix[:stride*height],
	}, nil
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }
func (s *Surface) Stride() int { return s.stride }

// Bytes returns the backing memory. It is shared, not copied.
func (s *Surface) Bytes() []byte { return s.pix }

func (s *Surface) Rect() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

func (s *Surface) InBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

func (s *Surface) offset(x, y int) int {
	return y*s.stride + x*BytesPerPixel
}

// Pixel returns the pixel at (x, y), or Transparent when out of bounds.
func (s *Surface) Pixel(x, y int) Color {
	if !s.InBounds(x, y) {
		return Transparent
	}
	i := s.offset(x, y)
	return Color(binary.LittleEndian.Uint32(s.pix[i : i+BytesPerPixel]))
}

// SetPixel writes one pixel. Out of bounds writes are dropped.
func (s *Surface) SetPixel(x, y int, c Color) {
	if !s.InBounds(x, y) {
		return
	}
	i := s.offset(x, y)
	binary.LittleEndian.PutUint32(s.pix[i:i+BytesPerPixel], uint32(c))
}

func (s *Surface) Fill(c Color) {
	s.FillRect(s.Rect(), c)
}

// FillRect fills r clipped to the surface.
func (s *Surface) FillRect(r image.Rectangle, c Color) {
	r = r.Intersect(s.Rect())
	if r.Empty() {
		return
	}

	// Fill the first row, then copy it down.
	first := s.pix[s.offset(r.Min.X, r.Min.Y):s.offset(r.Max.X, r.Min.Y)]
	for i := 0; i < len(first); i += BytesPerPixel {
		binary.LittleEndian.PutUint32(first[i:i+BytesPerPixel], uint32(c))
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		copy(s.pix[s.offset(r.Min.X, y):s.offset(r.Max.X, y)], first)
	}
}

// Composite copies src into s with its top-left corner at (x, y). The copy
// is clipped to s; pixels falling outside are dropped. It returns the
// rectangle of s that was written, which is empty when nothing overlapped.
func (s *Surface) Composite(src *Surface, x, y int) image.Rectangle {
	if src == nil {
		return image.Rectangle{}
	}
	r := image.Rect(x, y, x+src.width, y+src.height).Intersect(s.Rect())
	if r.Empty() {
		return image.Rectangle{}
	}

	sx, sy := r.Min.X-x, r.Min.Y-y
	n := r.Dx() * BytesPerPixel
	for row := 0; row < r.Dy(); row++ {
		d := s.offset(r.Min.X, r.Min.Y+row)
		o := src.offset(sx, sy+row)
		copy(s.pix[d:d+n], src.pix[o:o+n])
	}
	return r
}

// SubSurface copies the pixels of r (clipped) into a new surface.
func (s *Surface) SubSurface(r image.Rectangle) *Surface {
	r = r.Intersect(s.Rect())
	sub := NewSurface(r.Dx(), r.Dy())
	sub.Composite(s, -r.Min.X, -r.Min.Y)
	return sub
}

func (s *Surface) ColorModel() color.Model { return color.RGBAModel }

func (s *Surface) Bounds() image.Rectangle { return s.Rect() }

func (s *Surface) At(x, y int) color.Color {
	c := s.Pixel(x, y)
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

func (s *Surface) Set(x, y int, c color.Color) {
	s.SetPixel(x, y, FromColor(c))
}

var _ image.Image = (*Surface)(nil)
