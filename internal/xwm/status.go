package xwm

import (
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-tagbar/internal/tags"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// urgencyHint is the XUrgencyHint flag of WM_HINTS.
const urgencyHint = 1 << 8

// allDesktops is the _NET_WM_DESKTOP of windows shown on every desktop.
const allDesktops = 0xffffffff

// DesktopMask maps an EWMH desktop number to a tag mask.
func DesktopMask(desktop uint32) tags.Mask {
	if desktop == allDesktops {
		return tags.All
	}
	return tags.Tag(int(desktop))
}

// Status is the window manager state, read from EWMH root and client
// properties.
type Status struct {
	Focused tags.Mask
	Views   []tags.Mask
	Urgent  tags.Mask
	Clients []xproto.Window
}

// StatusReader reads Status from the root window.
type StatusReader struct {
	conn *Conn
	skip xproto.Window
}

// NewStatusReader ignores the skip window, the bar itself, when counting
// views.
func NewStatusReader(conn *Conn, skip xproto.Window) *StatusReader {
	return &StatusReader{
		conn: conn,
		skip: skip,
	}
}

func (r *StatusReader) Read() (Status, error) {
	atoms, err := r.conn.Atoms(
		"_NET_CURRENT_DESKTOP",
		"_NET_CLIENT_LIST",
		"_NET_WM_DESKTOP",
		"_NET_WM_STATE",
		"_NET_WM_STATE_DEMANDS_ATTENTION",
	)
	if err != nil {
		return Status{}, err
	}
	currentDesktop, clientList, wmDesktop, wmState, demandsAttention := atoms[0], atoms[1], atoms[2], atoms[3], atoms[4]

	var status Status

	current, err := r.cardinals(r.conn.Root(), currentDesktop)
	if err != nil {
		return Status{}, err
	}
	if len(current) > 0 {
		status.Focused = DesktopMask(current[0])
	}

	clients, err := r.cardinals(r.conn.Root(), clientList)
	if err != nil {
		return Status{}, err
	}

	for _, c := range clients {
		wid := xproto.Window(c)
		if wid == r.skip {
			continue
		}

		desktop, err := r.cardinals(wid, wmDesktop)
		if err != nil {
			// Clients may vanish between reading the list and their properties.
			slog.Debug("Skipping client", "package", "xwm", "window", wid, "error", err)
			continue
		}
		if len(desktop) == 0 {
			continue
		}
		mask := DesktopMask(desktop[0])

		status.Clients = append(status.Clients, wid)
		status.Views = append(status.Views, mask)
		if r.urgent(wid, wmState, demandsAttention) {
			status.Urgent |= mask
		}
	}

	return status, nil
}

func (r *StatusReader) urgent(wid xproto.Window, wmState, demandsAttention xproto.Atom) bool {
	hints, err := r.cardinals(wid, xproto.AtomWmHints)
	if err == nil && len(hints) > 0 && hints[0]&urgencyHint != 0 {
		return true
	}

	states, err := r.cardinals(wid, wmState)
	if err != nil {
		return false
	}
	for _, s := range states {
		if xproto.Atom(s) == demandsAttention {
			return true
		}
	}
	return false
}

// cardinals reads a 32-bit property of any type.
func (r *StatusReader) cardinals(wid xproto.Window, property xproto.Atom) ([]uint32, error) {
	reply, err := xproto.GetProperty(r.conn.X, false, wid, property, xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
	if err != nil {
		return nil, fmt.Errorf("get property %d of %d: %w", property, wid, err)
	}
	return decodeCardinals(reply.Format, reply.Value), nil
}

func decodeCardinals(format byte, value []byte) []uint32 {
	if format != 32 {
		return nil
	}
	values := make([]uint32, 0, len(value)/4)
	for len(value) >= 4 {
		values = append(values, xgb.Get32(value))
		value = value[4:]
	}
	return values
}
