package xwm

import (
	"fmt"
	"strings"
)

// Anchor is the screen edge the bar is attached to.
type Anchor int

const (
	AnchorTop Anchor = iota
	AnchorBottom
	AnchorLeft
	AnchorRight
	AnchorCenter
)

func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(s) {
	case "", "top":
		return AnchorTop, nil
	case "bottom":
		return AnchorBottom, nil
	case "left":
		return AnchorLeft, nil
	case "right":
		return AnchorRight, nil
	case "center", "centre":
		return AnchorCenter, nil
	default:
		return 0, fmt.Errorf("invalid anchor: %q", s)
	}
}

func (a Anchor) String() string {
	switch a {
	case AnchorBottom:
		return "bottom"
	case AnchorLeft:
		return "left"
	case AnchorRight:
		return "right"
	case AnchorCenter:
		return "center"
	default:
		return "top"
	}
}

// Rect is a window geometry in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Place centres a width x height window along the anchored edge.
func Place(anchor Anchor, screenWidth, screenHeight, width, height int) Rect {
	r := Rect{
		X:      (screenWidth - width) / 2,
		Y:      (screenHeight - height) / 2,
		Width:  width,
		Height: height,
	}
	switch anchor {
	case AnchorTop:
		r.Y = 0
	case AnchorBottom:
		r.Y = screenHeight - height
	case AnchorLeft:
		r.X = 0
	case AnchorRight:
		r.X = screenWidth - width
	}
	return r
}

// Strut returns _NET_WM_STRUT_PARTIAL for r: left, right, top, bottom,
// left_start_y, left_end_y, right_start_y, right_end_y, top_start_x,
// top_end_x, bottom_start_x, bottom_end_x. A centred bar reserves nothing.
func Strut(anchor Anchor, r Rect, screenWidth, screenHeight int) [12]uint32 {
	var s [12]uint32
	if r.Width <= 0 || r.Height <= 0 {
		return s
	}

	switch anchor {
	case AnchorTop:
		s[2] = uint32(r.Y + r.Height)
		s[8], s[9] = uint32(r.X), uint32(r.X+r.Width-1)
	case AnchorBottom:
		s[3] = uint32(screenHeight - r.Y)
		s[10], s[11] = uint32(r.X), uint32(r.X+r.Width-1)
	case AnchorLeft:
		s[0] = uint32(r.X + r.Width)
		s[4], s[5] = uint32(r.Y), uint32(r.Y+r.Height-1)
	case AnchorRight:
		s[1] = uint32(screenWidth - r.X)
		s[6], s[7] = uint32(r.Y), uint32(r.Y+r.Height-1)
	}
	return s
}
