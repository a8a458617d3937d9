package pool

import (
	"errors"
	"fmt"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

var (
	ErrPoolExhausted  = errors.New("pool exhausted")
	ErrStaleBuffer    = errors.New("stale buffer")
	ErrBufferAttached = errors.New("buffer is attached")
)

type slotState int

const (
	slotFree slotState = iota
	slotDrawing
	slotAttached
)

type slot struct {
	offset int
	size   int
	gen    uint64
	state  slotState
}

// Pool is an arena over Memory. Buffers are handles (slot index +
// generation) so a handle that outlived its slot can never reach the
// memory that slot now describes.
type Pool struct {
	mem   Memory
	slots []slot
	end   int
	gen   uint64
}

func New(mem Memory) *Pool {
	return &Pool{mem: mem}
}

func (p *Pool) Memory() Memory {
	return p.mem
}

// Size is the capacity of the backing memory in bytes.
func (p *Pool) Size() int {
	return len(p.mem.Bytes())
}

// InUse counts buffers that have not been released.
func (p *Pool) InUse() int {
	n := 0
	for _, s := range p.slots {
		if s.state != slotFree {
			n++
		}
	}
	return n
}

// Resize grows the backing memory to at least size bytes. Requests below
// the current capacity are ignored, so the pool never shrinks under live
// buffers.
func (p *Pool) Resize(size int) error {
	if size <= p.Size() {
		return nil
	}
	if err := p.mem.Grow(size); err != nil {
		return fmt.Errorf("resize pool to %d bytes: %w", size, err)
	}
	return nil
}

// NewBuffer carves a zeroed width x height buffer out of the pool.
func (p *Pool) NewBuffer(width, height, stride int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	if stride < width*pixel.BytesPerPixel {
		return nil, fmt.Errorf("%w: stride=%d width=%d", pixel.ErrStride, stride, width)
	}

	need := stride * height
	index, err := p.alloc(need)
	if err != nil {
		return nil, err
	}

	p.gen++
	s := &p.slots[index]
	s.gen = p.gen
	s.state = slotDrawing
	clear(p.mem.Bytes()[s.offset : s.offset+need])

	return &Buffer{
		pool:   p,
		index:  index,
		gen:    s.gen,
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

func (p *Pool) alloc(need int) (int, error) {
	for i, s := range p.slots {
		if s.state == slotFree && s.size >= need {
			return i, nil
		}
	}

	if p.end+need > p.Size() {
		return 0, fmt.Errorf("%w: need %d bytes, %d of %d used", ErrPoolExhausted, need, p.end, p.Size())
	}

	p.slots = append(p.slots, slot{offset: p.end, size: need})
	p.end += need
	return len(p.slots) - 1, nil
}

// Release returns the buffer's memory to the pool. Releasing a stale handle
// is an error; the handle is stale afterwards.
func (p *Pool) Release(b *Buffer) error {
	s, err := p.lookup(b)
	if err != nil {
		return err
	}
	s.state = slotFree
	p.trim()
	return nil
}

// ReleaseOffset releases the live buffer starting at offset, for display
// servers that report completion by offset.
func (p *Pool) ReleaseOffset(offset int) error {
	for i := range p.slots {
		s := &p.slots[i]
		if s.offset == offset && s.state != slotFree {
			s.state = slotFree
			p.trim()
			return nil
		}
	}
	return fmt.Errorf("%w: no buffer at offset %d", ErrStaleBuffer, offset)
}

// trim drops free slots at the end of the arena so the space can be reused
// by buffers of any size.
func (p *Pool) trim() {
	for len(p.slots) > 0 && p.slots[len(p.slots)-1].state == slotFree {
		last := p.slots[len(p.slots)-1]
		p.end = last.offset
		p.slots = p.slots[:len(p.slots)-1]
	}
}

func (p *Pool) lookup(b *Buffer) (*slot, error) {
	if b == nil || b.pool != p || b.index >= len(p.slots) {
		return nil, ErrStaleBuffer
	}
	s := &p.slots[b.index]
	if s.gen != b.gen || s.state == slotFree {
		return nil, ErrStaleBuffer
	}
	return s, nil
}

func (p *Pool) Close() error {
	p.slots = nil
	p.end = 0
	return p.mem.Close()
}

// Buffer is a handle to a region of a Pool.
type Buffer struct {
	pool   *Pool
	index  int
	gen    uint64
	width  int
	height int
	stride int
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }
func (b *Buffer) Stride() int { return b.stride }

// Valid reports whether the handle still refers to live memory.
func (b *Buffer) Valid() bool {
	_, err := b.pool.lookup(b)
	return err == nil
}

func (b *Buffer) Attached() bool {
	s, err := b.pool.lookup(b)
	return err == nil && s.state == slotAttached
}

// Offset is the byte offset of the buffer inside the pool memory.
func (b *Buffer) Offset() (int, error) {
	s, err := b.pool.lookup(b)
	if err != nil {
		return 0, err
	}
	return s.offset, nil
}

// Bytes returns the buffer memory for reading, including while attached.
func (b *Buffer) Bytes() ([]byte, error) {
	s, err := b.pool.lookup(b)
	if err != nil {
		return nil, err
	}
	return b.pool.mem.Bytes()[s.offset : s.offset+b.stride*b.height], nil
}

// Surface returns a writable view of the buffer. It fails once the buffer
// has been attached.
func (b *Buffer) Surface() (*pixel.Surface, error) {
	s, err := b.pool.lookup(b)
	if err != nil {
		return nil, err
	}
	if s.state == slotAttached {
		return nil, ErrBufferAttached
	}
	return pixel.Wrap(b.width, b.height, b.stride, b.pool.mem.Bytes()[s.offset:s.offset+b.stride*b.height])
}

// MarkAttached hands the buffer to the display server. From here on it is
// read-only until released.
func (b *Buffer) MarkAttached() error {
	s, err := b.pool.lookup(b)
	if err != nil {
		return err
	}
	if s.state == slotAttached {
		return ErrBufferAttached
	}
	s.state = slotAttached
	return nil
}

func (b *Buffer) String() string {
	return fmt.Sprintf("pool.Buffer(index=%d, gen=%d, %dx%d)", b.index, b.gen, b.width, b.height)
}
