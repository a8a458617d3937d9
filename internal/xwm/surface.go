package xwm

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/ItsNotGoodName/x-tagbar/internal/pool"
	"github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xproto"
)

// Segment is shared memory the X server can attach to.
type Segment interface {
	// ID is the System V shared memory id.
	ID() int
	// Serial changes when the segment is replaced.
	Serial() int
}

// Surface presents pool buffers on a Dock through MIT-SHM. Every frame asks
// for a completion event, which tells when the server is done reading the
// buffer.
type Surface struct {
	dock    *Dock
	segment Segment
	gc      xproto.Gcontext
	log     *slog.Logger

	seg       shm.Seg
	segSerial int
	attached  bool
	destroyed bool

	pending    *pool.Buffer
	hasPending bool
	damage     []image.Rectangle
}

func NewSurface(dock *Dock, segment Segment) (*Surface, error) {
	x := dock.conn.X

	gc, err := xproto.NewGcontextId(x)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateGCChecked(x, gc, xproto.Drawable(dock.wid), xproto.GcGraphicsExposures, []uint32{0}).Check(); err != nil {
		return nil, err
	}

	return &Surface{
		dock:    dock,
		segment: segment,
		gc:      gc,
		log:     slog.With("package", "xwm", "window", dock.wid),
	}, nil
}

// Drawable is the window completion events are reported for.
func (s *Surface) Drawable() xproto.Drawable {
	return xproto.Drawable(s.dock.wid)
}

func (s *Surface) Attach(b *pool.Buffer, x, y int) error {
	if b != nil && !b.Valid() {
		return pool.ErrStaleBuffer
	}
	s.pending = b
	s.hasPending = true
	return nil
}

func (s *Surface) Damage(x, y, width, height int) {
	s.damage = append(s.damage, image.Rect(x, y, x+width, y+height))
}

func (s *Surface) Commit() error {
	damage := s.damage
	s.damage = nil

	if s.destroyed {
		return nil
	}

	if !s.hasPending {
		return nil
	}
	b := s.pending
	s.pending, s.hasPending = nil, false

	if b == nil {
		return s.dock.setMapped(false)
	}

	if err := s.attachSegment(); err != nil {
		return err
	}

	offset, err := b.Offset()
	if err != nil {
		return err
	}

	rects := clipDamage(damage, b.Width(), b.Height())
	if len(rects) == 0 {
		// Every frame needs a completion event or its buffer is never released.
		rects = []image.Rectangle{image.Rect(0, 0, b.Width(), b.Height())}
	}

	depth := s.dock.conn.Screen.RootDepth
	for i, r := range rects {
		var sendEvent byte
		if i == len(rects)-1 {
			sendEvent = 1
		}

		shm.PutImage(s.dock.conn.X, s.Drawable(), s.gc,
			uint16(b.Stride()/4), uint16(b.Height()),
			uint16(r.Min.X), uint16(r.Min.Y), uint16(r.Dx()), uint16(r.Dy()),
			int16(r.Min.X), int16(r.Min.Y),
			depth, xproto.ImageFormatZPixmap, sendEvent,
			s.seg, uint32(offset))
	}

	// The completion event of the last PutImage releases the buffer, so
	// the commit has succeeded even when mapping fails.
	if err := s.dock.setMapped(true); err != nil {
		s.log.Error("Failed to map window", "error", err)
	}
	return nil
}

// attachSegment (re)attaches the pool's memory when it was replaced by a
// resize.
func (s *Surface) attachSegment() error {
	serial := s.segment.Serial()
	if s.attached && s.segSerial == serial {
		return nil
	}

	x := s.dock.conn.X
	seg, err := shm.NewSegId(x)
	if err != nil {
		return err
	}
	if err := shm.AttachChecked(x, seg, uint32(s.segment.ID()), true).Check(); err != nil {
		return fmt.Errorf("attach segment %d: %w", s.segment.ID(), err)
	}

	if s.attached {
		shm.Detach(x, s.seg)
	}
	s.log.Debug("Attached segment", "id", s.segment.ID(), "serial", serial)

	s.seg, s.segSerial, s.attached = seg, serial, true
	return nil
}

func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	x := s.dock.conn.X
	if s.attached {
		shm.Detach(x, s.seg)
		s.attached = false
	}
	xproto.FreeGC(x, s.gc)
	s.dock.Destroy()
}

func clipDamage(damage []image.Rectangle, width, height int) []image.Rectangle {
	bounds := image.Rect(0, 0, width, height)
	rects := make([]image.Rectangle, 0, len(damage))
	for _, r := range damage {
		if r = r.Intersect(bounds); !r.Empty() {
			rects = append(rects, r)
		}
	}
	return rects
}
