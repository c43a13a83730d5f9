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
	"github.com/rook-computer/glyphpane/internal/system"
	"github.com/rook-computer/glyphpane/internal/window"
)

func main() {
	cfg, err := app.DefaultConfigFromEnv()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Flags
	debug := flag.Bool("debug", false, "enable debug logging to ./glyphpane-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via GLYPHPANE_STDIO_LOG")
	sink := flag.String("sink", "window", "output: window | fb")
	fbDevice := flag.String("fb-device", "/dev/fb0", "framebuffer device used by -sink fb")
	applyFlags := app.BindFlags(flag.CommandLine, &cfg)
	flag.Parse()
	if err := applyFlags(); err != nil {
		fmt.Println("flag error:", err)
		os.Exit(2)
	}

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("GLYPHPANE_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./glyphpane-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fonts, err := app.LoadFonts(cfg, logger)
	if err != nil {
		fmt.Println("font error:", err)
		os.Exit(1)
	}
	renderer := app.NewFrameRenderer(cfg, fonts, logger)
	store := state.NewStore(cfg.Content())

	var (
		source    events.Source
		presenter render.Presenter
	)
	switch *sink {
	case "window":
		win, err := window.Open("glyphpane", cfg.Width, cfg.Height)
		if err != nil {
			fmt.Println("window error:", err)
			os.Exit(1)
		}
		defer win.Close()
		win.Logger = logger
		win.Background = cfg.Background
		source, presenter = win, win
	case "fb":
		fb, err := render.OpenFramebuffer(*fbDevice)
		if err != nil {
			fmt.Println("framebuffer error:", err)
			os.Exit(1)
		}
		defer fb.Close()
		fb.Logger = logger
		logger.Infof("main", "framebuffer open, bounds=%dx%d", fb.Bounds().Dx(), fb.Bounds().Dy())

		// Switch console to KD_GRAPHICS to suppress hardware cursor
		console := &system.Console{Logger: logger}
		_ = console.EnterGraphics()
		defer console.Restore()

		consoleSource := system.NewConsoleSource(fb.Bounds().Size(), cfg.RedrawInterval)
		consoleSource.Logger = logger
		source, presenter = consoleSource, fb
	default:
		fmt.Println("unknown -sink:", *sink)
		os.Exit(2)
	}

	a := app.New(store, renderer, source, presenter)
	a.Logger = logger
	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
	}
	logger.Infof("main", "exiting after %d frames", store.Snapshot().Frame.Presented)
}
