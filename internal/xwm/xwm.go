// Package xwm is the X11 display server side of the bar. A dock window
// plays the layer surface, MIT-SHM carries the shared memory buffers and
// EWMH desktops are reported as tags.
package xwm

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xproto"
)

var ErrNoSHM = errors.New("X server does not support MIT-SHM")

type Conn struct {
	X      *xgb.Conn
	Screen *xproto.ScreenInfo

	atomsMu sync.Mutex
	atoms   map[string]xproto.Atom
}

// Connect opens display, or $DISPLAY when empty, and requires MIT-SHM.
func Connect(display string) (*Conn, error) {
	x, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	if err := shm.Init(x); err != nil {
		x.Close()
		return nil, fmt.Errorf("%w: %w", ErrNoSHM, err)
	}

	version, err := shm.QueryVersion(x).Reply()
	if err != nil {
		x.Close()
		return nil, fmt.Errorf("%w: %w", ErrNoSHM, err)
	}
	slog.Debug("Connected", "package", "xwm", "shm_major", version.MajorVersion, "shm_minor", version.MinorVersion)

	return &Conn{
		X:      x,
		Screen: xproto.Setup(x).DefaultScreen(x),
		atoms:  make(map[string]xproto.Atom),
	}, nil
}

func (c *Conn) Close() {
	c.X.Close()
}

func (c *Conn) Root() xproto.Window {
	return c.Screen.Root
}

// Atom interns name once per connection.
func (c *Conn) Atom(name string) (xproto.Atom, error) {
	c.atomsMu.Lock()
	defer c.atomsMu.Unlock()

	if atom, ok := c.atoms[name]; ok {
		return atom, nil
	}

	reply, err := xproto.InternAtom(c.X, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %s: %w", name, err)
	}
	c.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// Atoms interns every name in order.
func (c *Conn) Atoms(names ...string) ([]xproto.Atom, error) {
	atoms := make([]xproto.Atom, 0, len(names))
	for _, name := range names {
		atom, err := c.Atom(name)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}
