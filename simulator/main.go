// Command simulator runs the window loop headless and exposes it over HTTP:
// resize, redraw and close requests stand in for a window system, and the
// last presented frame is served as a PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/glyphpane/internal/app"
	"github.com/rook-computer/glyphpane/internal/events"
	"github.com/rook-computer/glyphpane/internal/render"
	"github.com/rook-computer/glyphpane/internal/state"
	"github.com/rook-computer/glyphpane/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}
	cfg, err := app.DefaultConfigFromEnv()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	debug := flag.Bool("debug", false, "log to stderr")
	applyFlags := app.BindFlags(flag.CommandLine, &cfg)
	flag.Parse()
	if err := applyFlags(); err != nil {
		fmt.Println("flag error:", err)
		os.Exit(2)
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		logger = app.NewFileLogger(os.Stderr)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fonts, err := app.LoadFonts(cfg, logger)
	if err != nil {
		fmt.Println("font error:", err)
		os.Exit(1)
	}

	store := state.NewStore(cfg.Content())
	source := events.NewChanSource(16)
	frames := render.NewMemoryPresenter()

	loop := app.New(store, app.NewFrameRenderer(cfg, fonts, logger), source, frames)
	loop.Logger = logger

	control := NewSimControl(cfg, store, source)

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Logger = logger
	server.Handler = web.NewDefaultMux(web.APIV1Deps{Events: source, Store: store, Frames: frames})
	registerSimEndpoints(server.Handler, control)

	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}

	fmt.Println("glyphpane simulator listening on", server.Addr)
	fmt.Println("API: http://" + displayAddr(server.Addr) + "/api/v1/")

	// The simulated window opens at the configured size.
	if err := control.Reset(processCtx); err != nil {
		fmt.Println("initial frame error:", err)
	}

	if err := loop.Start(processCtx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("loop error:", err)
	}
	_ = server.Stop()
}

func displayAddr(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	if len(addr) > 5 && addr[:5] == "[::]:" {
		return "127.0.0.1" + addr[4:]
	}
	return addr
}
