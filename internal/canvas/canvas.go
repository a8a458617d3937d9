// Package canvas composites widget output into shared memory buffers and
// presents them on a display surface.
package canvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
	"github.com/ItsNotGoodName/x-tagbar/internal/pool"
	"github.com/ItsNotGoodName/x-tagbar/internal/widget"
)

var ErrOwnDamage = errors.New("own damage must be handled by the owner of the widget tree")

// Surface is the on-screen surface of the display server.
type Surface interface {
	// Attach hands b to the display server. A nil buffer hides the surface.
	Attach(b *pool.Buffer, x, y int) error
	// Damage marks a rectangle as changed for the next commit.
	Damage(x, y, width, height int)
	// Commit applies the attached buffer and damage. On error the buffer
	// was not handed to the display server and stays with the caller.
	Commit() error
	Destroy()
}

// Canvas keeps a retained copy of everything on screen (the pixmap) and
// presents it through a fresh pool buffer every frame. A buffer is never
// written after it has been attached.
type Canvas struct {
	surface Surface
	pool    *pool.Pool
	pixmap  *pixel.Surface
}

func New(surface Surface, p *pool.Pool) *Canvas {
	return &Canvas{
		surface: surface,
		pool:    p,
		pixmap:  pixel.NewSurface(0, 0),
	}
}

func (c *Canvas) Width() int  { return c.pixmap.Width() }
func (c *Canvas) Height() int { return c.pixmap.Height() }

func (c *Canvas) Pool() *pool.Pool { return c.pool }

// Pixmap is the retained frame. It must not be modified by callers.
func (c *Canvas) Pixmap() *pixel.Surface { return c.pixmap }

// Resize changes the frame size, keeping overlapping pixels, and makes
// room in the pool for two frames: the one on screen and the next.
func (c *Canvas) Resize(width, height int) error {
	width, height = max(width, 0), max(height, 0)
	if width != c.pixmap.Width() || height != c.pixmap.Height() {
		next := pixel.NewSurface(width, height)
		next.Composite(c.pixmap, 0, 0)
		c.pixmap = next
	}
	return c.pool.Resize(2 * c.frameSize())
}

func (c *Canvas) frameSize() int {
	return c.pixmap.Width() * pixel.BytesPerPixel * c.pixmap.Height()
}

// Draw replaces the frame with w drawn at the origin and presents all of it.
func (c *Canvas) Draw(w widget.Widget) error {
	c.pixmap.Fill(pixel.Transparent)
	w.Draw(c.pixmap, 0, 0)
	return c.present(c.pixmap.Rect())
}

// Present shows the retained frame again, damaging all of it.
func (c *Canvas) Present() error {
	return c.present(c.pixmap.Rect())
}

// Apply presents damage. Area damage only marks its clipped rectangle.
func (c *Canvas) Apply(d widget.Damage) error {
	switch d.Kind {
	case widget.DamageNone:
		return nil
	case widget.DamageArea:
		r := c.pixmap.Composite(d.Surface, d.X, d.Y)
		if r.Empty() {
			return nil
		}
		return c.present(r)
	case widget.DamageAll:
		c.pixmap.Fill(pixel.Transparent)
		c.pixmap.Composite(d.Surface, 0, 0)
		return c.present(c.pixmap.Rect())
	case widget.DamageDestroy:
		return c.clear()
	case widget.DamageOwn:
		return ErrOwnDamage
	default:
		return fmt.Errorf("unknown damage kind %d", d.Kind)
	}
}

func (c *Canvas) clear() error {
	c.pixmap.Fill(pixel.Transparent)
	if err := c.surface.Attach(nil, 0, 0); err != nil {
		return err
	}
	c.surface.Damage(0, 0, c.pixmap.Width(), c.pixmap.Height())
	return c.surface.Commit()
}

func (c *Canvas) present(r image.Rectangle) error {
	if c.pixmap.Rect().Empty() || r.Empty() {
		return nil
	}

	buf, err := c.newBuffer()
	if err != nil {
		return err
	}

	dst, err := buf.Surface()
	if err != nil {
		_ = c.pool.Release(buf)
		return err
	}
	dst.Composite(c.pixmap, 0, 0)

	if err := buf.MarkAttached(); err != nil {
		_ = c.pool.Release(buf)
		return err
	}
	if err := c.surface.Attach(buf, 0, 0); err != nil {
		_ = c.pool.Release(buf)
		return err
	}
	c.surface.Damage(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	if err := c.surface.Commit(); err != nil {
		_ = c.pool.Release(buf)
		return err
	}
	return nil
}

// newBuffer allocates the next frame, growing the pool once when it is
// full. Buffers still held by the display server are never reused.
func (c *Canvas) newBuffer() (*pool.Buffer, error) {
	w, h := c.pixmap.Width(), c.pixmap.Height()
	stride := w * pixel.BytesPerPixel

	buf, err := c.pool.NewBuffer(w, h, stride)
	if err == nil {
		return buf, nil
	}
	if !errors.Is(err, pool.ErrPoolExhausted) {
		return nil, err
	}

	if err := c.pool.Resize(c.pool.Size() + stride*h); err != nil {
		return nil, err
	}
	return c.pool.NewBuffer(w, h, stride)
}

// Destroy releases the display surface.
func (c *Canvas) Destroy() {
	c.surface.Destroy()
}
