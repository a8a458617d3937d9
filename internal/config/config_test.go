package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ItsNotGoodName/x-tagbar/internal/bar"
	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
	"github.com/ItsNotGoodName/x-tagbar/internal/widget"
)

func TestDefaultMatchesBar(t *testing.T) {
	cfg, err := Default().Bar()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Layout != bar.DefaultLayout {
		t.Fatalf("expected default layout %+v, got %+v", bar.DefaultLayout, cfg.Layout)
	}
	if cfg.Theme != bar.DefaultTheme {
		t.Fatalf("expected default theme %+v, got %+v", bar.DefaultTheme, cfg.Theme)
	}
	if cfg.HideAfter != 0 || cfg.Hidden {
		t.Fatalf("expected bar always shown by default")
	}
}

func TestStoreWritesDefaults(t *testing.T) {
	for _, name := range []string{"bar.yaml", "bar.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			store, err := Open(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("expected config file to be created: %v", err)
			}

			cfg, err := store.GetConfig()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg != Default() {
				t.Fatalf("expected defaults, got %+v", cfg)
			}
		})
	}
}

func TestYAMLPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.yaml")
	data := "tags: 9\nhide_after: 2s\ncolors:\n  focused: \"#ff0000\"\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewYAML(path).Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tags != 9 || cfg.IconSize != 60 || cfg.Colors.Bar != "#333232" {
		t.Fatalf("expected missing keys to keep defaults, got %+v", cfg)
	}

	barCfg, err := cfg.Bar()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if barCfg.HideAfter != 2*time.Second {
		t.Fatalf("expected 2s, got %s", barCfg.HideAfter)
	}
	if barCfg.Theme.Focused != pixel.Opaque(0xff0000) {
		t.Fatalf("expected red focus, got %s", barCfg.Theme.Focused)
	}
}

func TestReadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.json")
	if err := os.WriteFile(path, []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSON(path).Read(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNormalize(t *testing.T) {
	store, err := NewStore(NewMemory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Normalize(store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, _ := store.GetConfig()
	if cfg.ID == "" {
		t.Fatalf("expected an id")
	}

	id := cfg.ID
	if err := Normalize(store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, _ = store.GetConfig()
	if cfg.ID != id {
		t.Fatalf("expected id to be kept, %q -> %q", id, cfg.ID)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"Vertical", func(c *Config) { c.Orientation = "Vertical" }, ""},
		{"BadOrientation", func(c *Config) { c.Orientation = "diagonal" }, "orientation"},
		{"BadColor", func(c *Config) { c.Colors.Urgent = "red" }, "color urgent"},
		{"EmptyColor", func(c *Config) { c.Colors.Frame = "" }, ""},
		{"BadDuration", func(c *Config) { c.HideAfter = "soon" }, "hide_after"},
		{"NegativeDuration", func(c *Config) { c.HideAfter = "-1s" }, "hide_after"},
		{"TooManyTags", func(c *Config) { c.Tags = 40 }, "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			barCfg, err := cfg.Bar()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v (%+v)", tt.wantErr, err, barCfg)
			}
		})
	}

	cfg := Default()
	cfg.Orientation = "vertical"
	barCfg, _ := cfg.Bar()
	if barCfg.Layout.Orientation != widget.Vertical {
		t.Fatalf("expected vertical layout")
	}
}
