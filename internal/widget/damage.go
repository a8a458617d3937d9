package widget

import (
	"fmt"
	"image"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

type DamageKind int

const (
	// DamageNone has no visual effect.
	DamageNone DamageKind = iota
	// DamageOwn asks the owner to rebuild and redraw everything.
	DamageOwn
	// DamageArea carries fully rendered pixels for a sub-rectangle.
	DamageArea
	// DamageAll replaces the whole surface.
	DamageAll
	// DamageDestroy clears the surface to transparent.
	DamageDestroy
)

func (k DamageKind) String() string {
	switch k {
	case DamageOwn:
		return "own"
	case DamageArea:
		return "area"
	case DamageAll:
		return "all"
	case DamageDestroy:
		return "destroy"
	default:
		return "none"
	}
}

// Damage is the unit of change propagation. For DamageArea, (X, Y) is the
// position of Surface in the coordinate space of whoever holds the value;
// containers translate it on the way up.
type Damage struct {
	Kind    DamageKind
	Surface *pixel.Surface
	X       int
	Y       int
}

var NoDamage = Damage{Kind: DamageNone}

func OwnDamage() Damage {
	return Damage{Kind: DamageOwn}
}

func AreaDamage(s *pixel.Surface, x, y int) Damage {
	return Damage{Kind: DamageArea, Surface: s, X: x, Y: y}
}

func AllDamage(s *pixel.Surface) Damage {
	return Damage{Kind: DamageAll, Surface: s}
}

func DestroyDamage() Damage {
	return Damage{Kind: DamageDestroy}
}

// Translate moves area damage by (dx, dy). Other kinds are unchanged.
func (d Damage) Translate(dx, dy int) Damage {
	if d.Kind == DamageArea {
		d.X += dx
		d.Y += dy
	}
	return d
}

// Rect is the region area damage covers. It is empty for other kinds.
func (d Damage) Rect() image.Rectangle {
	if d.Kind != DamageArea || d.Surface == nil {
		return image.Rectangle{}
	}
	return image.Rect(d.X, d.Y, d.X+d.Surface.Width(), d.Y+d.Surface.Height())
}

func (d Damage) String() string {
	if d.Kind == DamageArea {
		return fmt.Sprintf("area%v", d.Rect())
	}
	return d.Kind.String()
}
