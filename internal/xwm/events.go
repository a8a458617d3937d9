package xwm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-tagbar/internal/bar"
	"github.com/ItsNotGoodName/x-tagbar/internal/tags"
	"github.com/ItsNotGoodName/x-tagbar/internal/widget"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xproto"
	"github.com/thejerf/suture/v4"
)

// Sender delivers messages to the bar.
type Sender func(ctx context.Context, msg bar.Msg) error

// Receiver turns X events into bar messages.
type Receiver struct {
	conn   *Conn
	dock   xproto.Window
	root   xproto.Window
	output string
	status *StatusReader
	send   Sender
	log    *slog.Logger

	// watch holds the properties whose change requires the status to be read
	// again.
	watch      map[xproto.Atom]bool
	subscribed map[xproto.Window]bool
}

// NewReceiver selects property changes on the root window. Status reported
// by the receiver is attributed to output.
func NewReceiver(conn *Conn, dock *Dock, output string, send Sender) (*Receiver, error) {
	atoms, err := conn.Atoms(
		"_NET_CURRENT_DESKTOP",
		"_NET_CLIENT_LIST",
		"_NET_WM_DESKTOP",
		"_NET_WM_STATE",
		"WM_HINTS",
	)
	if err != nil {
		return nil, err
	}

	err = xproto.ChangeWindowAttributesChecked(conn.X, conn.Root(), xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return nil, fmt.Errorf("select root property changes: %w", err)
	}

	r := newReceiver(dock.Window(), conn.Root(), output, atoms...)
	r.conn = conn
	r.send = send
	r.status = NewStatusReader(conn, dock.Window())
	return r, nil
}

func newReceiver(dock, root xproto.Window, output string, watch ...xproto.Atom) *Receiver {
	r := &Receiver{
		dock:       dock,
		root:       root,
		output:     output,
		log:        slog.With("package", "xwm", "output", output),
		watch:      make(map[xproto.Atom]bool, len(watch)),
		subscribed: make(map[xproto.Window]bool),
	}
	for _, atom := range watch {
		r.watch[atom] = true
	}
	return r
}

func (r *Receiver) String() string {
	return "xwm.Receiver"
}

// Translate converts ev into bar messages. Refresh reports that the window
// manager status changed and must be read again.
func (r *Receiver) Translate(ev xgb.Event) (msgs []bar.Msg, refresh bool) {
	switch ev := ev.(type) {
	case xproto.ConfigureNotifyEvent:
		if ev.Window != r.dock {
			return nil, false
		}
		return []bar.Msg{bar.Configure{
			Serial: uint32(ev.Sequence),
			Width:  int(ev.Width),
			Height: int(ev.Height),
		}}, false
	case xproto.ExposeEvent:
		if ev.Window != r.dock || ev.Count != 0 {
			return nil, false
		}
		return []bar.Msg{bar.Expose{}}, false
	case xproto.ButtonPressEvent:
		if ev.Event != r.dock {
			return nil, false
		}
		return []bar.Msg{pointer(ev.EventX, ev.EventY, widget.InputPress, ev.Detail, ev.Time)}, false
	case xproto.ButtonReleaseEvent:
		if ev.Event != r.dock {
			return nil, false
		}
		return []bar.Msg{pointer(ev.EventX, ev.EventY, widget.InputRelease, ev.Detail, ev.Time)}, false
	case xproto.EnterNotifyEvent:
		if ev.Event != r.dock {
			return nil, false
		}
		return []bar.Msg{pointer(ev.EventX, ev.EventY, widget.InputEnter, 0, ev.Time)}, false
	case xproto.LeaveNotifyEvent:
		if ev.Event != r.dock {
			return nil, false
		}
		return []bar.Msg{pointer(ev.EventX, ev.EventY, widget.InputLeave, 0, ev.Time)}, false
	case xproto.DestroyNotifyEvent:
		if ev.Window != r.dock {
			return nil, false
		}
		return []bar.Msg{bar.Closed{}}, false
	case shm.CompletionEvent:
		if ev.Drawable != xproto.Drawable(r.dock) {
			return nil, false
		}
		return []bar.Msg{bar.BufferRelease{Offset: int(ev.Offset)}}, false
	case xproto.PropertyNotifyEvent:
		if ev.Window == r.root {
			return nil, r.watch[ev.Atom]
		}
		return nil, r.subscribed[ev.Window] && r.watch[ev.Atom]
	default:
		return nil, false
	}
}

func pointer(x, y int16, kind widget.InputKind, button xproto.Button, time xproto.Timestamp) bar.Pointer {
	return bar.Pointer{
		X: int(x),
		Y: int(y),
		Input: widget.Input{
			Kind:   kind,
			Button: uint32(button),
			Time:   uint32(time),
		},
	}
}

// StatusMsg converts status into one update of the output's tags.
func (r *Receiver) StatusMsg(status Status) bar.TagUpdate {
	return bar.TagUpdate{
		Output:  r.output,
		Focused: &status.Focused,
		Views:   tags.EncodeViewTags(status.Views),
		Urgent:  &status.Urgent,
	}
}

// refresh reads the status and selects property changes on clients that
// appeared since the last read.
func (r *Receiver) refresh() ([]bar.Msg, error) {
	status, err := r.status.Read()
	if err != nil {
		return nil, err
	}

	alive := make(map[xproto.Window]bool, len(status.Clients))
	for _, wid := range status.Clients {
		alive[wid] = true
		if r.subscribed[wid] {
			continue
		}
		xproto.ChangeWindowAttributes(r.conn.X, wid, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange})
		r.subscribed[wid] = true
	}
	for wid := range r.subscribed {
		if !alive[wid] {
			delete(r.subscribed, wid)
		}
	}

	return []bar.Msg{r.StatusMsg(status)}, nil
}

// Serve reads X events until the connection is closed. The bar is told it
// was closed when the X server goes away.
func (r *Receiver) Serve(ctx context.Context) error {
	msgs, err := r.refresh()
	if err != nil {
		return err
	}
	if err := r.sendAll(ctx, msgs); err != nil {
		return err
	}

	for {
		ev, xerr := r.conn.X.WaitForEvent()
		if ev == nil && xerr == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.log.Debug("exit: no event or error")
			_ = r.send(ctx, bar.Closed{})
			return fmt.Errorf("%w: X connection closed", suture.ErrDoNotRestart)
		}

		if xerr != nil {
			// Errors of unchecked requests, such as a client that vanished
			// before its event mask was changed.
			r.log.Warn("X error", "error", xerr)
			continue
		}

		msgs, refresh := r.Translate(ev)
		if refresh {
			status, err := r.refresh()
			if err != nil {
				r.log.Error("Failed to read status", "error", err)
			}
			msgs = append(msgs, status...)
		}

		if err := r.sendAll(ctx, msgs); err != nil {
			return err
		}
	}
}

func (r *Receiver) sendAll(ctx context.Context, msgs []bar.Msg) error {
	for _, msg := range msgs {
		if err := r.send(ctx, msg); err != nil {
			if errors.Is(err, bar.ErrClosed) {
				return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
			}
			return err
		}
	}
	return nil
}
