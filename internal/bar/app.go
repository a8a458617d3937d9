// Package bar runs the tag bar: it owns the widget tree, the canvas and the
// tag state, and applies every message from a single dispatch loop.
package bar

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"
	"time"

	"github.com/ItsNotGoodName/x-tagbar/internal/canvas"
	"github.com/ItsNotGoodName/x-tagbar/internal/tags"
	"github.com/ItsNotGoodName/x-tagbar/internal/widget"
	"github.com/k0kubun/pp"
)

var (
	ErrOrphanEvent = errors.New("orphan event")
	ErrClosed      = errors.New("bar closed")
)

// LayerSurface is the role of the bar's surface on the display server.
type LayerSurface interface {
	SetSize(width, height int)
	AckConfigure(serial uint32)
	Destroy()
}

// Runner runs the external action of a click.
type Runner interface {
	Run(command string) error
}

type Status int

const (
	StatusUnconfigured Status = iota
	StatusConfigured
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusConfigured:
		return "configured"
	case StatusClosed:
		return "closed"
	default:
		return "unconfigured"
	}
}

type Config struct {
	Layout Layout
	Theme  Theme
	// Command is run on click, see ClickCommand. Empty disables clicks.
	Command string
	// HideAfter hides the bar after it was shown or its tags changed.
	// Zero keeps it visible.
	HideAfter time.Duration
	// Hidden starts the bar hidden.
	Hidden bool
}

type timer interface {
	Stop() bool
}

type App struct {
	cfg      Config
	layer    LayerSurface
	canvas   *canvas.Canvas
	runner   Runner
	log      *slog.Logger
	onChange []func(Snapshot)

	msgC      chan Msg
	doneC     chan struct{}
	afterFunc func(time.Duration, func()) timer

	status  Status
	visible bool
	// offered by the last configure
	offerWidth, offerHeight int
	// requested with SetSize
	sizeWidth, sizeHeight int

	focused tags.Mask
	urgent  tags.Mask
	outputs []string
	views   map[string][]tags.Mask

	root    *widget.List
	pressed bool
	pressAt image.Point

	hideGeneration uint64
	hideTimer      timer
}

// New creates the bar and requests its initial size. Nothing is drawn
// before the first configure.
func New(cfg Config, layer LayerSurface, c *canvas.Canvas, runner Runner) (*App, error) {
	a := &App{
		cfg:     cfg,
		layer:   layer,
		canvas:  c,
		runner:  runner,
		log:     slog.With("package", "bar"),
		msgC:    make(chan Msg, 64),
		doneC:   make(chan struct{}),
		visible: !cfg.Hidden,
		views:   make(map[string][]tags.Mask),
		afterFunc: func(d time.Duration, fn func()) timer {
			return time.AfterFunc(d, fn)
		},
	}

	root, err := Build(a.State(), cfg.Layout, cfg.Theme, a.click)
	if err != nil {
		return nil, err
	}
	a.root = root
	a.requestSize()

	return a, nil
}

// OnChange registers fn to receive a snapshot after every state change.
// It must be called before Run.
func (a *App) OnChange(fn func(Snapshot)) {
	a.onChange = append(a.onChange, fn)
}

// Send queues msg for the dispatch loop.
func (a *App) Send(ctx context.Context, msg Msg) error {
	select {
	case <-a.doneC:
		return ErrClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.doneC:
		return ErrClosed
	case a.msgC <- msg:
		return nil
	}
}

func (a *App) post(msg Msg) {
	select {
	case <-a.doneC:
	case a.msgC <- msg:
	}
}

// Run dispatches messages until the bar is closed, a message fails, or
// ctx is canceled. It must only be called once.
func (a *App) Run(ctx context.Context) error {
	defer close(a.doneC)
	defer a.stopHideTimer()

	a.publish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-a.msgC:
			if err := a.Handle(msg); err != nil {
				return err
			}
			if a.status == StatusClosed {
				return nil
			}
		}
	}
}

func (a *App) Status() Status { return a.status }

func (a *App) Visible() bool { return a.visible }

// State concatenates the views of every output in arrival order.
func (a *App) State() tags.State {
	var views []tags.Mask
	for _, output := range a.outputs {
		views = append(views, a.views[output]...)
	}
	return tags.State{
		Focused: a.focused,
		Urgent:  a.urgent,
		Views:   views,
	}
}

// Handle applies one message. Only orphan events are returned as errors;
// drawing failures are logged and the frame is skipped.
func (a *App) Handle(msg Msg) error {
	if a.status == StatusClosed {
		a.log.Debug("Dropping message after close", "msg", fmt.Sprintf("%T", msg))
		return nil
	}

	switch msg := msg.(type) {
	case Configure:
		a.configure(msg)
	case FocusedTags:
		a.trackOutput(msg.Output)
		a.focused = msg.Tags
		a.tagsChanged()
	case ViewTags:
		a.trackOutput(msg.Output)
		a.setViews(msg.Output, msg.Tags)
		a.tagsChanged()
	case UrgentTags:
		a.trackOutput(msg.Output)
		a.urgent = msg.Tags
		a.tagsChanged()
	case TagUpdate:
		a.trackOutput(msg.Output)
		if msg.Views != nil {
			a.setViews(msg.Output, msg.Views)
		}
		if msg.Urgent != nil {
			a.urgent = *msg.Urgent
		}
		if msg.Focused != nil {
			a.focused = *msg.Focused
		}
		a.tagsChanged()
	case Pointer:
		a.pointer(msg)
		return nil
	case Expose:
		if a.shown() {
			if err := a.canvas.Present(); err != nil {
				a.log.Error("Failed to present frame", "error", err)
			}
		}
		return nil
	case BufferRelease:
		if err := a.canvas.Pool().ReleaseOffset(msg.Offset); err != nil {
			a.log.Warn("Failed to release buffer", "offset", msg.Offset, "error", err)
		}
		return nil
	case Show:
		a.show()
	case Hide:
		a.hide(msg.Generation)
	case Closed:
		a.close()
	default:
		return fmt.Errorf("%w: %T", ErrOrphanEvent, msg)
	}

	a.publish()
	return nil
}

func (a *App) shown() bool {
	return a.status == StatusConfigured && a.visible
}

func (a *App) configure(msg Configure) {
	a.log.Debug("Configure", "serial", msg.Serial, "width", msg.Width, "height", msg.Height)

	a.layer.AckConfigure(msg.Serial)
	a.offerWidth, a.offerHeight = msg.Width, msg.Height
	first := a.status == StatusUnconfigured
	a.status = StatusConfigured

	if err := a.resize(); err != nil {
		a.log.Error("Failed to resize pool", "error", err)
	}

	if a.visible {
		a.redraw()
		if first {
			a.scheduleHide()
		}
	}
}

func (a *App) trackOutput(output string) {
	if !slices.Contains(a.outputs, output) {
		a.outputs = append(a.outputs, output)
	}
}

func (a *App) setViews(output string, b []byte) {
	views, dropped := tags.DecodeViewTags(b)
	if dropped > 0 {
		a.log.Warn("Dropping partial view tags", "output", output, "bytes", dropped)
	}
	a.views[output] = views
}

func (a *App) tagsChanged() {
	if a.log.Enabled(context.Background(), slog.LevelDebug) {
		a.log.Debug("Tag state", "state", pp.Sprint(a.State()))
	}

	if a.cfg.HideAfter > 0 {
		a.visible = true
		a.scheduleHide()
	}
	if a.shown() {
		a.redraw()
	}
}

// size is the configured size; zero dimensions follow the widget tree.
func (a *App) size() (int, int) {
	width, height := a.offerWidth, a.offerHeight
	if width == 0 {
		width = a.root.Width()
	}
	if height == 0 {
		height = a.root.Height()
	}
	return width, height
}

func (a *App) resize() error {
	return a.canvas.Resize(a.size())
}

func (a *App) requestSize() {
	width, height := a.root.Width(), a.root.Height()
	if width == a.sizeWidth && height == a.sizeHeight {
		return
	}
	a.sizeWidth, a.sizeHeight = width, height
	a.layer.SetSize(width, height)
}

// redraw rebuilds the widget tree from the tag state and presents all of it.
func (a *App) redraw() {
	root, err := Build(a.State(), a.cfg.Layout, a.cfg.Theme, a.click)
	if err != nil {
		a.log.Error("Failed to build bar", "error", err)
		return
	}
	a.root = root
	a.pressed = false

	a.requestSize()
	if err := a.resize(); err != nil {
		a.log.Error("Failed to resize pool", "error", err)
	}
	if err := a.canvas.Draw(root); err != nil {
		a.log.Error("Failed to draw frame", "error", err)
	}
}

func (a *App) apply(d widget.Damage) {
	if d.Kind == widget.DamageOwn {
		a.redraw()
		return
	}
	if err := a.canvas.Apply(d); err != nil {
		a.log.Error("Failed to apply damage", "damage", d.String(), "error", err)
	}
}

func (a *App) pointer(msg Pointer) {
	if !a.shown() {
		return
	}

	at := image.Pt(msg.X, msg.Y)
	in := msg.Input
	switch in.Kind {
	case widget.InputPress:
		if in.Button != PrimaryButton {
			return
		}
		a.pressed = true
		a.pressAt = at
		a.dispatch(at, in)
	case widget.InputRelease:
		if in.Button != PrimaryButton {
			return
		}
		// The release is reported where the pointer ended up; a press that
		// moved off its tag is cancelled there first.
		if a.pressed && a.hit(a.pressAt) != a.hit(at) {
			a.dispatch(a.pressAt, widget.Input{Kind: widget.InputLeave, Time: in.Time})
		}
		a.pressed = false
		a.dispatch(at, in)
	case widget.InputLeave:
		if a.pressed {
			a.pressed = false
			a.dispatch(a.pressAt, in)
		}
	default:
		a.dispatch(at, in)
	}
}

func (a *App) dispatch(at image.Point, in widget.Input) {
	a.apply(a.root.Contains(at.X, at.Y, in))
}

// hit returns the index of the tag under p, or -1.
func (a *App) hit(p image.Point) int {
	for i, off := range a.root.Offsets() {
		if widget.Within(a.root.Child(i), p.X-off.X, p.Y-off.Y) {
			return i
		}
	}
	return -1
}

func (a *App) click(mask tags.Mask) {
	if a.cfg.Command == "" || a.runner == nil {
		return
	}

	command := ClickCommand(a.cfg.Command, mask)
	a.log.Debug("Running click command", "command", command)
	if err := a.runner.Run(command); err != nil {
		a.log.Error("Failed to run click command", "command", command, "error", err)
	}
}

func (a *App) show() {
	a.visible = true
	if a.status == StatusConfigured {
		a.redraw()
	}
	a.scheduleHide()
}

func (a *App) hide(generation uint64) {
	if generation != 0 && generation != a.hideGeneration {
		a.log.Debug("Ignoring stale hide", "generation", generation, "current", a.hideGeneration)
		return
	}

	a.stopHideTimer()
	if !a.visible {
		return
	}
	a.visible = false
	a.pressed = false

	if a.status == StatusConfigured {
		a.apply(widget.DestroyDamage())
	}
}

func (a *App) scheduleHide() {
	if a.cfg.HideAfter <= 0 {
		return
	}

	a.stopHideTimer()
	generation := a.hideGeneration
	a.hideTimer = a.afterFunc(a.cfg.HideAfter, func() {
		a.post(Hide{Generation: generation})
	})
}

// stopHideTimer invalidates every pending auto-hide.
func (a *App) stopHideTimer() {
	a.hideGeneration++
	if a.hideTimer != nil {
		a.hideTimer.Stop()
		a.hideTimer = nil
	}
}

func (a *App) close() {
	a.log.Debug("Closing")
	a.stopHideTimer()
	a.layer.Destroy()
	a.canvas.Destroy()
	a.status = StatusClosed
	a.pressed = false
}

func (a *App) publish() {
	if len(a.onChange) == 0 {
		return
	}
	snapshot := a.Snapshot()
	for _, fn := range a.onChange {
		fn(snapshot)
	}
}
