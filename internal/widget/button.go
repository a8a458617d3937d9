package widget

import "github.com/ItsNotGoodName/x-tagbar/internal/pixel"

// Reaction handles input for a Button. It may mutate child and returns the
// damage relative to the button.
type Reaction func(child Widget, in Input) Damage

// Button wraps one child and turns pointer input into damage. A release
// that follows a press on the same button is a click.
type Button struct {
	child   Widget
	react   Reaction
	onClick func()
	pressed bool
}

func NewButton(child Widget, react Reaction) *Button {
	return &Button{
		child: child,
		react: react,
	}
}

// OnClick sets the function run once per press and release pair.
func (b *Button) OnClick(fn func()) *Button {
	b.onClick = fn
	return b
}

func (b *Button) Child() Widget { return b.child }

func (b *Button) Pressed() bool { return b.pressed }

func (b *Button) Width() int  { return b.child.Width() }
func (b *Button) Height() int { return b.child.Height() }

func (b *Button) Contains(x, y int, in Input) Damage {
	damage := NoDamage
	if b.react != nil {
		damage = b.react(b.child, in)
	}

	switch in.Kind {
	case InputPress:
		b.pressed = true
	case InputRelease:
		if b.pressed {
			b.pressed = false
			if b.onClick != nil {
				b.onClick()
			}
		}
	case InputLeave:
		b.pressed = false
	}

	// Only the owner of the tree decides on a full rebuild; a button asking
	// for one gets its own area redrawn instead.
	if damage.Kind == DamageOwn {
		damage = AreaDamage(ToSurface(b.child), 0, 0)
	}
	return damage
}

func (b *Button) Draw(dst *pixel.Surface, x, y int) {
	b.child.Draw(dst, x, y)
}
