package xwm

import (
	"fmt"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// DockConfig describes the dock window.
type DockConfig struct {
	Name   string
	Class  string
	Anchor Anchor
	Cursor uint16
}

// Dock is a window the window manager keeps on top of every desktop and
// out of the way of other windows. It is the bar's layer surface.
type Dock struct {
	conn   *Conn
	wid    xproto.Window
	anchor Anchor
	log    *slog.Logger

	rect      Rect
	mapped    bool
	destroyed bool
}

// CreateDock creates the dock window unmapped. It is mapped by the first
// commit of a buffer.
func CreateDock(conn *Conn, cfg DockConfig) (*Dock, error) {
	screen := conn.Screen

	cursor, err := conn.CreateCursor(cfg.Cursor)
	if err != nil {
		return nil, err
	}

	wid, err := xproto.NewWindowId(conn.X)
	if err != nil {
		return nil, err
	}

	if err := xproto.CreateWindowChecked(conn.X, screen.RootDepth,
		wid, screen.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask|xproto.CwCursor, // 1, 2, 3
		[]uint32{
			screen.BlackPixel, // 1
			xproto.EventMaskExposure |
				xproto.EventMaskStructureNotify |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskEnterWindow |
				xproto.EventMaskLeaveWindow, // 2
			uint32(cursor), // 3
		}).Check(); err != nil {
		return nil, err
	}

	d := &Dock{
		conn:   conn,
		wid:    wid,
		anchor: cfg.Anchor,
		log:    slog.With("package", "xwm", "window", wid),
	}

	if err := d.setProperties(cfg); err != nil {
		xproto.DestroyWindow(conn.X, wid)
		return nil, err
	}

	return d, nil
}

func (d *Dock) Window() xproto.Window {
	return d.wid
}

func (d *Dock) Rect() Rect {
	return d.rect
}

func (d *Dock) setProperties(cfg DockConfig) error {
	atoms, err := d.conn.Atoms(
		"_NET_WM_WINDOW_TYPE",
		"_NET_WM_WINDOW_TYPE_DOCK",
		"_NET_WM_STATE",
		"_NET_WM_STATE_STICKY",
		"_NET_WM_STATE_ABOVE",
		"_NET_WM_DESKTOP",
		"_NET_WM_NAME",
		"UTF8_STRING",
	)
	if err != nil {
		return err
	}
	windowType, dock, state, sticky, above, desktop, netName, utf8 := atoms[0], atoms[1], atoms[2], atoms[3], atoms[4], atoms[5], atoms[6], atoms[7]

	for _, err := range []error{
		d.changeAtoms(windowType, dock),
		d.changeAtoms(state, sticky, above),
		d.changeCardinals(desktop, 0xffffffff),
		d.changeString(xproto.AtomWmName, xproto.AtomString, cfg.Name),
		d.changeString(netName, utf8, cfg.Name),
		// WM_CLASS is instance and class, both NUL terminated.
		d.changeString(xproto.AtomWmClass, xproto.AtomString, cfg.Class+"\x00"+cfg.Class+"\x00"),
	} {
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Dock) changeAtoms(property xproto.Atom, values ...xproto.Atom) error {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		xgb.Put32(data[i*4:], uint32(v))
	}
	return xproto.ChangePropertyChecked(d.conn.X, xproto.PropModeReplace, d.wid,
		property, xproto.AtomAtom, 32, uint32(len(values)), data).Check()
}

func (d *Dock) changeCardinals(property xproto.Atom, values ...uint32) error {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		xgb.Put32(data[i*4:], v)
	}
	return xproto.ChangePropertyChecked(d.conn.X, xproto.PropModeReplace, d.wid,
		property, xproto.AtomCardinal, 32, uint32(len(values)), data).Check()
}

func (d *Dock) changeString(property, typ xproto.Atom, value string) error {
	return xproto.ChangePropertyChecked(d.conn.X, xproto.PropModeReplace, d.wid,
		property, typ, 8, uint32(len(value)), []byte(value)).Check()
}

// SetSize places the window along its anchored edge and reserves the
// space it covers.
func (d *Dock) SetSize(width, height int) {
	if d.destroyed || width <= 0 || height <= 0 {
		return
	}

	screen := d.conn.Screen
	screenWidth, screenHeight := int(screen.WidthInPixels), int(screen.HeightInPixels)
	d.rect = Place(d.anchor, screenWidth, screenHeight, width, height)
	d.log.Debug("SetSize", "rect", d.rect)

	err := xproto.ConfigureWindowChecked(d.conn.X, d.wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(d.rect.X), uint32(d.rect.Y), uint32(d.rect.Width), uint32(d.rect.Height)}).Check()
	if err != nil {
		d.log.Error("Failed to configure window", "error", err)
		return
	}

	if err := d.setStrut(screenWidth, screenHeight); err != nil {
		d.log.Error("Failed to set strut", "error", err)
	}
}

func (d *Dock) setStrut(screenWidth, screenHeight int) error {
	atoms, err := d.conn.Atoms("_NET_WM_STRUT_PARTIAL", "_NET_WM_STRUT")
	if err != nil {
		return err
	}

	partial := Strut(d.anchor, d.rect, screenWidth, screenHeight)
	if err := d.changeCardinals(atoms[0], partial[:]...); err != nil {
		return err
	}
	return d.changeCardinals(atoms[1], partial[:4]...)
}

// AckConfigure has nothing to acknowledge on X11, geometry changes are
// final once ConfigureNotify arrives.
func (d *Dock) AckConfigure(serial uint32) {
	d.log.Debug("AckConfigure", "serial", serial)
}

func (d *Dock) setMapped(mapped bool) error {
	if d.destroyed || d.mapped == mapped {
		return nil
	}

	var err error
	if mapped {
		err = xproto.MapWindowChecked(d.conn.X, d.wid).Check()
	} else {
		err = xproto.UnmapWindowChecked(d.conn.X, d.wid).Check()
	}
	if err != nil {
		return fmt.Errorf("map=%t: %w", mapped, err)
	}

	d.mapped = mapped
	return nil
}

func (d *Dock) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	xproto.DestroyWindow(d.conn.X, d.wid)
}
