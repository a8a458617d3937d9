package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ItsNotGoodName/x-tagbar/internal/bar"
	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
	"github.com/ItsNotGoodName/x-tagbar/internal/widget"
	"github.com/google/uuid"
)

// Normalize gives the config an instance id when it has none.
func Normalize(store *Store) error {
	return store.UpdateConfig(func(cfg Config) (Config, error) {
		if cfg.ID == "" {
			cfg.ID = uuid.NewString()
		}
		return cfg, nil
	})
}

func ParseOrientation(s string) (widget.Orientation, error) {
	switch strings.ToLower(s) {
	case "", "horizontal":
		return widget.Horizontal, nil
	case "vertical":
		return widget.Vertical, nil
	default:
		return 0, fmt.Errorf("invalid orientation: %q", s)
	}
}

// ParseTheme parses every color; empty colors keep their default.
func ParseTheme(colors Colors) (bar.Theme, error) {
	theme := bar.DefaultTheme
	for _, c := range []struct {
		name  string
		value string
		dst   *pixel.Color
	}{
		{"background", colors.Background, &theme.Background},
		{"bar", colors.Bar, &theme.Bar},
		{"frame", colors.Frame, &theme.Frame},
		{"focused", colors.Focused, &theme.Focused},
		{"occupied", colors.Occupied, &theme.Occupied},
		{"urgent", colors.Urgent, &theme.Urgent},
		{"pressed", colors.Pressed, &theme.Pressed},
	} {
		if c.value == "" {
			continue
		}
		color, err := pixel.ParseColor(c.value)
		if err != nil {
			return bar.Theme{}, fmt.Errorf("color %s: %w", c.name, err)
		}
		*c.dst = color
	}
	return theme, nil
}

// Bar converts the config into the bar's settings.
func (cfg Config) Bar() (bar.Config, error) {
	orientation, err := ParseOrientation(cfg.Orientation)
	if err != nil {
		return bar.Config{}, err
	}

	theme, err := ParseTheme(cfg.Colors)
	if err != nil {
		return bar.Config{}, err
	}

	var hideAfter time.Duration
	if cfg.HideAfter != "" {
		hideAfter, err = time.ParseDuration(cfg.HideAfter)
		if err != nil {
			return bar.Config{}, fmt.Errorf("hide_after: %w", err)
		}
		if hideAfter < 0 {
			return bar.Config{}, fmt.Errorf("hide_after must not be negative: %s", cfg.HideAfter)
		}
	}

	layout := bar.Layout{
		Tags:          cfg.Tags,
		Orientation:   orientation,
		IconSize:      cfg.IconSize,
		HighlightSize: cfg.HighlightSize,
		Border:        cfg.Border,
		Margin:        cfg.Margin,
		Spacing:       cfg.Spacing,
	}
	if err := layout.Validate(); err != nil {
		return bar.Config{}, err
	}

	return bar.Config{
		Layout:    layout,
		Theme:     theme,
		Command:   cfg.Command,
		HideAfter: hideAfter,
		Hidden:    cfg.Hidden,
	}, nil
}
