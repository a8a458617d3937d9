package pixel

import (
	"bytes"
	"image"
	"testing"
)

func TestSurface(t *testing.T) {
	t.Run("NewSurface", func(t *testing.T) {
		s := NewSurface(3, 2)
		if s.Width() != 3 || s.Height() != 2 || s.Stride() != 12 {
			t.Fatalf("expected 3x2 stride 12, got %dx%d stride %d", s.Width(), s.Height(), s.Stride())
		}
		if len(s.Bytes()) != 24 {
			t.Fatalf("expected 24 bytes, got %d", len(s.Bytes()))
		}
		if s.Pixel(2, 1) != Transparent {
			t.Fatalf("expected transparent, got %s", s.Pixel(2, 1))
		}
	})

	t.Run("ByteOrder", func(t *testing.T) {
		s := NewSurface(1, 1)
		s.SetPixel(0, 0, 0xff_11_22_33)
		want := []byte{0x33, 0x22, 0x11, 0xff}
		if !bytes.Equal(s.Bytes(), want) {
			t.Fatalf("expected %x, got %x", want, s.Bytes())
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		s := NewSurface(2, 2)
		s.SetPixel(-1, 0, Opaque(0xffffff))
		s.SetPixel(2, 0, Opaque(0xffffff))
		s.SetPixel(0, 2, Opaque(0xffffff))
		for _, b := range s.Bytes() {
			if b != 0 {
				t.Fatalf("out of bounds write leaked into surface: %x", s.Bytes())
			}
		}
		if s.Pixel(5, 5) != Transparent {
			t.Fatalf("expected transparent for out of bounds read")
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		mem := make([]byte, 64)
		s, err := Wrap(2, 2, 16, mem)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s.SetPixel(1, 1, Opaque(0x010203))
		if mem[16+4] != 0x03 {
			t.Fatalf("expected write through stride, got %x", mem)
		}

		if _, err := Wrap(4, 1, 8, mem); err == nil {
			t.Fatalf("expected stride error")
		}
		if _, err := Wrap(4, 8, 16, mem); err == nil {
			t.Fatalf("expected size error")
		}
	})
}

func TestFillRect(t *testing.T) {
	s := NewSurface(4, 4)
	red := Opaque(0xff0000)
	s.FillRect(image.Rect(1, 1, 10, 3), red)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := x >= 1 && y >= 1 && y < 3
			got := s.Pixel(x, y)
			if inside && got != red {
				t.Errorf("(%d,%d) expected red, got %s", x, y, got)
			}
			if !inside && got != Transparent {
				t.Errorf("(%d,%d) expected transparent, got %s", x, y, got)
			}
		}
	}
}

func TestComposite(t *testing.T) {
	blue := Opaque(0x0000ff)
	green := Opaque(0x00ff00)

	t.Run("Idempotent", func(t *testing.T) {
		src := NewSurface(2, 2)
		src.Fill(blue)
		src.SetPixel(1, 1, green)

		once := NewSurface(5, 5)
		once.Composite(src, 1, 2)

		twice := NewSurface(5, 5)
		twice.Composite(src, 1, 2)
		twice.Composite(src, 1, 2)

		if !bytes.Equal(once.Bytes(), twice.Bytes()) {
			t.Fatalf("compositing twice changed the result")
		}
	})

	t.Run("LastWriteWins", func(t *testing.T) {
		a := NewSurface(2, 2)
		a.Fill(blue)
		b := NewSurface(2, 2)
		b.Fill(Color(0x80_00_40_00))

		dst := NewSurface(2, 2)
		dst.Composite(a, 0, 0)
		dst.Composite(b, 0, 0)
		if got := dst.Pixel(0, 0); got != Color(0x80_00_40_00) {
			t.Fatalf("expected copy semantics, got %s", got)
		}
	})

	tests := []struct {
		name string
		x, y int
		want image.Rectangle
	}{
		{"Inside", 1, 1, image.Rect(1, 1, 4, 4)},
		{"ClipRight", 3, 0, image.Rect(3, 0, 5, 3)},
		{"ClipBottom", 0, 4, image.Rect(0, 4, 3, 5)},
		{"ClipNegative", -2, -1, image.Rect(0, 0, 1, 2)},
		{"Outside", 9, 9, image.Rectangle{}},
		{"OutsideNegative", -3, 0, image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSurface(3, 3)
			src.Fill(green)
			dst := NewSurface(5, 5)

			got := dst.Composite(src, tt.x, tt.y)
			if got != tt.want {
				t.Fatalf("Composite(%d,%d) wrote %v, want %v", tt.x, tt.y, got, tt.want)
			}
			if len(dst.Bytes()) != 5*5*4 {
				t.Fatalf("destination memory changed size")
			}
			for y := 0; y < 5; y++ {
				for x := 0; x < 5; x++ {
					inside := image.Pt(x, y).In(tt.want)
					if inside != (dst.Pixel(x, y) == green) {
						t.Errorf("(%d,%d) inside=%v pixel=%s", x, y, inside, dst.Pixel(x, y))
					}
				}
			}
		})
	}
}

func TestSubSurface(t *testing.T) {
	s := NewSurface(4, 4)
	s.SetPixel(2, 3, Opaque(0xabcdef))
	sub := s.SubSurface(image.Rect(2, 2, 10, 10))
	if sub.Width() != 2 || sub.Height() != 2 {
		t.Fatalf("expected 2x2, got %dx%d", sub.Width(), sub.Height())
	}
	if sub.Pixel(0, 1) != Opaque(0xabcdef) {
		t.Fatalf("expected copied pixel, got %s", sub.Pixel(0, 1))
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		err  bool
	}{
		{"#262525", 0xff_26_25_25, false},
		{"c6aa82", 0xff_c6_aa_82, false},
		{"#ff98967e", 0xff_98_96_7e, false},
		{"#00ffffff", Transparent, false},
		{"#80ff0000", 0x80_80_00_00, false},
		{"#fff", 0, true},
		{"#gggggg", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("ParseColor(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
