package pixel

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a pre-multiplied ARGB pixel, 0xAARRGGBB.
type Color uint32

const Transparent Color = 0x00_00_00_00

// Opaque returns a fully opaque color from 0xRRGGBB.
func Opaque(rgb uint32) Color {
	return Color(0xff_00_00_00 | rgb&0x00_ff_ff_ff)
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// RGBA implements color.Color. The stored channels are already pre-multiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R()) * 0x101
	g = uint32(c.G()) * 0x101
	b = uint32(c.B()) * 0x101
	a = uint32(c.A()) * 0x101
	return
}

func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// FromColor converts any color.Color into a pre-multiplied Color.
func FromColor(c color.Color) Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	return Color(a>>8)<<24 | Color(r>>8)<<16 | Color(g>>8)<<8 | Color(b>>8)
}

// ParseColor parses "#rrggbb" or "#aarrggbb". Straight alpha is pre-multiplied.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Opaque(uint32(v)), nil
	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return premultiply(uint32(v)), nil
	default:
		return 0, fmt.Errorf("invalid color %q: expected #rrggbb or #aarrggbb", s)
	}
}

func premultiply(argb uint32) Color {
	a := argb >> 24
	mul := func(ch uint32) uint32 { return (ch*a + 127) / 255 }
	r := mul(argb >> 16 & 0xff)
	g := mul(argb >> 8 & 0xff)
	b := mul(argb & 0xff)
	return Color(a<<24 | r<<16 | g<<8 | b)
}
