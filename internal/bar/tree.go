package bar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
	"github.com/ItsNotGoodName/x-tagbar/internal/tags"
	"github.com/ItsNotGoodName/x-tagbar/internal/widget"
)

// PrimaryButton is the pointer button that selects a tag.
const PrimaryButton = 1

type Theme struct {
	Background pixel.Color
	Bar        pixel.Color
	Frame      pixel.Color
	Focused    pixel.Color
	Occupied   pixel.Color
	Urgent     pixel.Color
	Pressed    pixel.Color
}

var DefaultTheme = Theme{
	Background: pixel.Opaque(0x262525),
	Bar:        pixel.Opaque(0x333232),
	Frame:      pixel.Opaque(0x403e3e),
	Focused:    pixel.Opaque(0xc6aa82),
	Occupied:   pixel.Opaque(0x98967e),
	Urgent:     pixel.Opaque(0xb76666),
	Pressed:    pixel.Opaque(0x98967e),
}

type Layout struct {
	Tags          int
	Orientation   widget.Orientation
	IconSize      int
	HighlightSize int
	Border        int
	Margin        int
	Spacing       int
}

var DefaultLayout = Layout{
	Tags:          7,
	Orientation:   widget.Horizontal,
	IconSize:      60,
	HighlightSize: 20,
	Border:        2,
	Margin:        10,
	Spacing:       0,
}

// Validate checks that a highlight and its frame fit inside an icon.
func (l Layout) Validate() error {
	if l.Tags < 1 || l.Tags > tags.Count {
		return fmt.Errorf("tags must be between 1 and %d: %d", tags.Count, l.Tags)
	}
	if l.IconSize <= 0 || l.HighlightSize <= 0 {
		return fmt.Errorf("icon and highlight sizes must be positive: %d, %d", l.IconSize, l.HighlightSize)
	}
	if l.Border < 0 || l.Margin < 0 || l.Spacing < 0 {
		return fmt.Errorf("border, margin and spacing must not be negative")
	}
	if frame := l.HighlightSize + 2*l.Border; frame > l.IconSize {
		return fmt.Errorf("%w: highlight frame %d is larger than icon %d", widget.ErrDoesNotFit, frame, l.IconSize)
	}
	return nil
}

// Build creates the bar: one button per tag, coloured from state.
// onClick receives the mask of the clicked tag.
func Build(state tags.State, layout Layout, theme Theme, onClick func(tags.Mask)) (*widget.List, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	list := widget.NewList(layout.Orientation)
	list.SetColor(theme.Bar)
	list.SetMargin(layout.Margin)
	list.SetSpacing(layout.Spacing)

	for n := 0; n < layout.Tags; n++ {
		icon, err := tagIcon(state.Kind(n), layout, theme)
		if err != nil {
			return nil, err
		}

		button := widget.NewButton(icon, pressReaction(theme))
		if onClick != nil {
			mask := tags.Tag(n)
			button.OnClick(func() { onClick(mask) })
		}

		if err := list.Add(button); err != nil {
			return nil, err
		}
	}

	return list, nil
}

func tagIcon(kind tags.Kind, layout Layout, theme Theme) (*widget.Node, error) {
	icon := widget.NewNode(widget.Square(layout.IconSize, theme.Background))

	var color pixel.Color
	switch kind {
	case tags.KindFocused:
		color = theme.Focused
	case tags.KindUrgent:
		color = theme.Urgent
	case tags.KindOccupied:
		color = theme.Occupied
	default:
		return icon, nil
	}

	highlight := widget.NewBorder(widget.Square(layout.HighlightSize, color), layout.Border, theme.Frame)
	if err := icon.Center(highlight); err != nil {
		return nil, err
	}
	return icon, nil
}

// pressReaction paints the icon background while the primary button is
// held down.
func pressReaction(theme Theme) widget.Reaction {
	return func(child widget.Widget, in widget.Input) widget.Damage {
		icon, ok := child.(widget.Colorable)
		if !ok {
			return widget.NoDamage
		}

		switch in.Kind {
		case widget.InputPress:
			icon.SetColor(theme.Pressed)
		case widget.InputRelease, widget.InputLeave:
			if icon.Color() == theme.Background {
				return widget.NoDamage
			}
			icon.SetColor(theme.Background)
		default:
			return widget.NoDamage
		}

		return widget.AreaDamage(widget.ToSurface(child), 0, 0)
	}
}

// ClickCommand expands a click command for mask. A %d verb receives the
// mask; without one the mask is appended as the last argument.
func ClickCommand(template string, mask tags.Mask) string {
	if strings.Contains(template, "%d") {
		return strings.ReplaceAll(template, "%d", strconv.FormatUint(uint64(mask), 10))
	}
	return template + " " + strconv.FormatUint(uint64(mask), 10)
}
