package pool

import (
	"errors"
	"testing"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

func TestNewBuffer(t *testing.T) {
	p := New(NewHeap(4 * 4 * 4))

	t.Run("InvalidStride", func(t *testing.T) {
		if _, err := p.NewBuffer(4, 1, 8); !errors.Is(err, pixel.ErrStride) {
			t.Fatalf("expected stride error, got %v", err)
		}
	})

	t.Run("InvalidSize", func(t *testing.T) {
		if _, err := p.NewBuffer(0, 4, 0); err == nil {
			t.Fatalf("expected error for empty buffer")
		}
	})

	t.Run("Exhausted", func(t *testing.T) {
		if _, err := p.NewBuffer(4, 5, 16); !errors.Is(err, ErrPoolExhausted) {
			t.Fatalf("expected exhausted, got %v", err)
		}
		if p.InUse() != 0 {
			t.Fatalf("failed allocation must not hold memory, in use %d", p.InUse())
		}
	})

	t.Run("Zeroed", func(t *testing.T) {
		b, err := p.NewBuffer(4, 4, 16)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s, err := b.Surface()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s.Fill(pixel.Opaque(0xffffff))
		if err := p.Release(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		b2, err := p.NewBuffer(4, 4, 16)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s2, _ := b2.Surface()
		if s2.Pixel(3, 3) != pixel.Transparent {
			t.Fatalf("expected reused memory to be cleared")
		}
		_ = p.Release(b2)
	})
}

func TestBufferHandles(t *testing.T) {
	p := New(NewHeap(2 * 2 * 4 * 2))

	a, err := p.NewBuffer(2, 2, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.NewBuffer(2, 2, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	offA, _ := a.Offset()
	offB, _ := b.Offset()
	if offA == offB {
		t.Fatalf("live buffers must not alias: both at %d", offA)
	}

	t.Run("AttachedIsReadOnly", func(t *testing.T) {
		if err := a.MarkAttached(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := a.Surface(); !errors.Is(err, ErrBufferAttached) {
			t.Fatalf("expected attached error, got %v", err)
		}
		if _, err := a.Bytes(); err != nil {
			t.Fatalf("attached buffer should stay readable: %v", err)
		}
		if err := a.MarkAttached(); !errors.Is(err, ErrBufferAttached) {
			t.Fatalf("expected double attach error, got %v", err)
		}
	})

	t.Run("AttachedMemoryNotReused", func(t *testing.T) {
		if _, err := p.NewBuffer(2, 2, 8); !errors.Is(err, ErrPoolExhausted) {
			t.Fatalf("expected exhausted while both buffers live, got %v", err)
		}
	})

	t.Run("StaleAfterRelease", func(t *testing.T) {
		if err := p.Release(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Valid() {
			t.Fatalf("released handle must be stale")
		}
		if _, err := a.Surface(); !errors.Is(err, ErrStaleBuffer) {
			t.Fatalf("expected stale error, got %v", err)
		}
		if err := p.Release(a); !errors.Is(err, ErrStaleBuffer) {
			t.Fatalf("expected stale error on double release, got %v", err)
		}
	})

	t.Run("ReusedSlotKeepsOldHandleStale", func(t *testing.T) {
		c, err := p.NewBuffer(2, 2, 8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		offC, _ := c.Offset()
		if offC != offA {
			t.Fatalf("expected slot reuse at %d, got %d", offA, offC)
		}
		if a.Valid() {
			t.Fatalf("old handle became valid again after slot reuse")
		}
		_ = p.Release(c)
	})

	t.Run("ReleaseOffset", func(t *testing.T) {
		if err := p.ReleaseOffset(offB); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Valid() {
			t.Fatalf("expected handle released by offset to be stale")
		}
		if err := p.ReleaseOffset(offB); !errors.Is(err, ErrStaleBuffer) {
			t.Fatalf("expected stale error, got %v", err)
		}
		if p.InUse() != 0 {
			t.Fatalf("expected empty pool, %d in use", p.InUse())
		}
	})
}

func TestResize(t *testing.T) {
	p := New(NewHeap(16))

	b, err := p.NewBuffer(2, 2, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, _ := b.Surface()
	s.SetPixel(1, 1, pixel.Opaque(0x123456))

	if err := p.Resize(8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Size() != 16 {
		t.Fatalf("expected shrink to be ignored, size %d", p.Size())
	}

	if err := p.Resize(128); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Size() != 128 {
		t.Fatalf("expected 128 bytes, got %d", p.Size())
	}

	s, err = b.Surface()
	if err != nil {
		t.Fatalf("buffer should survive resize: %v", err)
	}
	if s.Pixel(1, 1) != pixel.Opaque(0x123456) {
		t.Fatalf("resize lost buffer contents")
	}

	if _, err := p.NewBuffer(4, 4, 16); err != nil {
		t.Fatalf("expected room after resize: %v", err)
	}
}

type failingMemory struct {
	Heap
}

func (failingMemory) Grow(int) error { return errors.New("no memory") }

func TestResizeFailure(t *testing.T) {
	p := New(&failingMemory{Heap: *NewHeap(16)})
	if err := p.Resize(64); err == nil {
		t.Fatalf("expected resize error")
	}
	if p.Size() != 16 {
		t.Fatalf("failed resize changed capacity to %d", p.Size())
	}
}
