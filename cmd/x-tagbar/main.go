package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/x-tagbar/internal/api"
	"github.com/ItsNotGoodName/x-tagbar/internal/bar"
	"github.com/ItsNotGoodName/x-tagbar/internal/build"
	"github.com/ItsNotGoodName/x-tagbar/internal/bus"
	"github.com/ItsNotGoodName/x-tagbar/internal/canvas"
	"github.com/ItsNotGoodName/x-tagbar/internal/config"
	"github.com/ItsNotGoodName/x-tagbar/internal/core"
	"github.com/ItsNotGoodName/x-tagbar/internal/pool"
	"github.com/ItsNotGoodName/x-tagbar/internal/spawn"
	"github.com/ItsNotGoodName/x-tagbar/internal/xwm"
	"github.com/ItsNotGoodName/x-tagbar/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
	"golang.org/x/term"
)

type Options struct {
	Debug   bool   `doc:"enable debug"`
	Display string `doc:"X display, defaults to $DISPLAY"`
	Host    string `doc:"host to listen on"`
	Port    int    `doc:"port to listen on, 0 disables the API" default:"0"`
	Config  string `doc:"config file" default:".x-tagbar.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			return run(ctx, options)
		})
	})

	cli.Root().Version = build.Current.String()

	cli.Run()
}

func run(ctx context.Context, options *Options) error {
	bus.SetContext(ctx)

	configFilePath, err := filepath.Abs(options.Config)
	if err != nil {
		return err
	}

	store, err := config.Open(configFilePath)
	if err != nil {
		return err
	}

	if err := config.Normalize(store); err != nil {
		return err
	}

	cfg, err := store.GetConfig()
	if err != nil {
		return err
	}

	barCfg, err := cfg.Bar()
	if err != nil {
		return fmt.Errorf("config %s: %w", configFilePath, err)
	}

	anchor, err := xwm.ParseAnchor(cfg.Anchor)
	if err != nil {
		return fmt.Errorf("config %s: %w", configFilePath, err)
	}

	// X11 connection
	conn, err := xwm.Connect(options.Display)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Shared memory sized for the first frame is allocated on configure.
	mem, err := pool.NewSysV(1)
	if err != nil {
		return err
	}
	p := pool.New(mem)
	defer p.Close()

	dock, err := xwm.CreateDock(conn, xwm.DockConfig{
		Name:   "x-tagbar",
		Class:  "x-tagbar",
		Anchor: anchor,
		Cursor: xwm.CursorHand2,
	})
	if err != nil {
		return err
	}

	surface, err := xwm.NewSurface(dock, mem)
	if err != nil {
		dock.Destroy()
		return err
	}

	app, err := bar.New(barCfg, dock, canvas.New(surface, p), spawn.Runner{})
	if err != nil {
		surface.Destroy()
		return err
	}

	hub := bus.NewHub[bar.Snapshot]().Register()
	app.OnChange(func(s bar.Snapshot) { bus.Publish(s) })

	receiver, err := xwm.NewReceiver(conn, dock, "X11", app.Send)
	if err != nil {
		surface.Destroy()
		return err
	}

	super := sutureext.NewSimple("x-tagbar")
	sutureext.Add(super, receiver)
	if options.Port != 0 {
		server := api.New(app, hub)
		addr := core.Address(options.Host, options.Port)
		sutureext.Add(super, sutureext.NewServiceFunc("api.Server", func(ctx context.Context) error {
			return server.Serve(ctx, addr, build.Current)
		}))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	superErrC := super.ServeBackground(ctx)

	slog.Info("Started", "id", cfg.ID, "config", configFilePath, "version", build.Current.String())

	err = app.Run(ctx)
	surface.Destroy()
	cancel()
	// Unblocks the receiver waiting for X events.
	conn.Close()
	if superErr := <-superErrC; superErr != nil && !errors.Is(superErr, context.Canceled) {
		slog.Warn("Supervisor stopped", "error", superErr)
	}

	return err
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level:   level,
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
