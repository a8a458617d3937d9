// Package canvastest provides an in-memory display surface for tests.
package canvastest

import (
	"image"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
	"github.com/ItsNotGoodName/x-tagbar/internal/pool"
)

// Surface behaves like a compositor: a committed buffer is copied to
// Screen, and the previously shown buffer is released back to its pool
// when a new one replaces it.
type Surface struct {
	Pool *pool.Pool

	// Screen is what the compositor shows; nil while hidden.
	Screen *pixel.Surface
	// Damages holds the damaged rectangles of each commit.
	Damages [][]image.Rectangle
	// Attached is every buffer ever attached, in order.
	Attached  []*pool.Buffer
	Commits   int
	Destroyed bool
	// HoldBuffers stops buffers from being released, like a compositor
	// that is slow to let go.
	HoldBuffers bool
	// CommitErr makes every commit fail without taking the attached buffer.
	CommitErr error

	pending    *pool.Buffer
	hasPending bool
	current    *pool.Buffer
	damage     []image.Rectangle
}

func New(p *pool.Pool) *Surface {
	return &Surface{Pool: p}
}

func (s *Surface) Attach(b *pool.Buffer, x, y int) error {
	s.pending = b
	s.hasPending = true
	if b != nil {
		s.Attached = append(s.Attached, b)
	}
	return nil
}

func (s *Surface) Damage(x, y, width, height int) {
	s.damage = append(s.damage, image.Rect(x, y, x+width, y+height))
}

func (s *Surface) Commit() error {
	s.Commits++
	s.Damages = append(s.Damages, s.damage)
	s.damage = nil

	if !s.hasPending {
		return nil
	}
	next := s.pending
	s.pending, s.hasPending = nil, false

	if s.CommitErr != nil {
		return s.CommitErr
	}

	var screen *pixel.Surface
	if next != nil {
		b, err := next.Bytes()
		if err != nil {
			return err
		}
		screen, err = pixel.Wrap(next.Width(), next.Height(), next.Stride(), append([]byte(nil), b...))
		if err != nil {
			return err
		}
	}

	previous := s.current
	s.current = next
	s.Screen = screen

	if previous != nil && !s.HoldBuffers {
		return s.Pool.Release(previous)
	}
	return nil
}

func (s *Surface) Destroy() {
	s.Destroyed = true
}

// LastDamage returns the damage of the latest commit.
func (s *Surface) LastDamage() []image.Rectangle {
	if len(s.Damages) == 0 {
		return nil
	}
	return s.Damages[len(s.Damages)-1]
}

// Current is the buffer on screen.
func (s *Surface) Current() *pool.Buffer {
	return s.current
}
