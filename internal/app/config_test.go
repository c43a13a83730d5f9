package app

import (
	"bytes"
	"flag"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/glyphpane/internal/render"
	"github.com/rook-computer/glyphpane/internal/text"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width != 720 || cfg.Height != 480 {
		t.Errorf("default window %dx%d, want 720x480", cfg.Width, cfg.Height)
	}
	if cfg.Background != render.RGB(0xff, 0xff, 0xff) || cfg.Foreground != render.RGB(0, 0, 0) {
		t.Errorf("unexpected default colors %06x on %06x", uint32(cfg.Foreground), uint32(cfg.Background))
	}
	style := cfg.Style()
	if style.Family != text.SansSerif || style.SizePt != 24 || style.MaxWidthPx != 0 {
		t.Errorf("unexpected default style %+v", style)
	}
	if cfg.Content().Text != DemoText {
		t.Error("default content should be the demo text")
	}
	if !cfg.SystemFonts {
		t.Error("installed fonts should be indexed by default so the demo's scripts have glyphs")
	}
}

func TestLoadFontsToleratesMissingFonts(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.FontFiles = []string{filepath.Join(t.TempDir(), "missing.ttf")}

	var logs bytes.Buffer
	fonts, err := LoadFonts(cfg, NewFileLogger(&logs))
	if err != nil {
		t.Fatalf("LoadFonts: %v", err)
	}
	if !fonts.HasFamily(text.EmbeddedSans) {
		t.Error("embedded fonts should always be registered")
	}
	if !strings.Contains(logs.String(), "skipping font file") {
		t.Errorf("missing font file should be logged, got %q", logs.String())
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv(EnvText, "hello")
	t.Setenv(EnvFont, "monospace")
	t.Setenv(EnvSize, "18.5")
	t.Setenv(EnvDPI, "96")
	t.Setenv(EnvMargin, "12")
	t.Setenv(EnvBackground, "#102030")
	t.Setenv(EnvForeground, "fff")
	t.Setenv(EnvSystemFonts, "false")
	t.Setenv(EnvFontFiles, "a.ttf, b.otf")
	t.Setenv(EnvRedrawInterval, "250ms")

	cfg, err := DefaultConfigFromEnv()
	if err != nil {
		t.Fatalf("DefaultConfigFromEnv: %v", err)
	}
	if cfg.Text != "hello" || cfg.Family != text.Monospace || cfg.SizePt != 18.5 || cfg.DPI != 96 || cfg.Margin != 12 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Background != render.RGB(0x10, 0x20, 0x30) || cfg.Foreground != render.RGB(0xff, 0xff, 0xff) {
		t.Errorf("unexpected colors %06x on %06x", uint32(cfg.Foreground), uint32(cfg.Background))
	}
	if cfg.SystemFonts || strings.Join(cfg.FontFiles, "|") != "a.ttf|b.otf" {
		t.Errorf("unexpected font settings %v %v", cfg.SystemFonts, cfg.FontFiles)
	}
	if cfg.RedrawInterval != 250*time.Millisecond {
		t.Errorf("redraw interval = %s", cfg.RedrawInterval)
	}
}

func TestDefaultConfigFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct{ key, value string }{
		{EnvSize, "0"},
		{EnvSize, "big"},
		{EnvDPI, "-1"},
		{EnvMargin, "-4"},
		{EnvBackground, "#12"},
		{EnvForeground, "#zzzzzz"},
		{EnvSystemFonts, "maybe"},
		{EnvRedrawInterval, "0s"},
		{EnvFont, "   "},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := DefaultConfigFromEnv(); err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("expected an error naming %s, got %v", tt.key, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]render.PackedColor{
		"#000000":   render.RGB(0, 0, 0),
		"ffffff":    render.RGB(0xff, 0xff, 0xff),
		"#f0c":      render.RGB(0xff, 0x00, 0xcc),
		" #A1B2C3 ": render.RGB(0xa1, 0xb2, 0xc3),
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Errorf("ParseColor(%q) = %06x, %v; want %06x", in, uint32(got), err, uint32(want))
		}
	}
	for _, bad := range []string{"", "#12", "12345", "#xyzxyz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
	if got := FormatColor(render.RGB(0xa1, 0xb2, 0xc3)); got != "#a1b2c3" {
		t.Errorf("FormatColor = %s", got)
	}
}

func TestBindFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apply := BindFlags(fs, &cfg)

	if err := fs.Parse([]string{"-text", "flagged", "-font", "Go Mono", "-size", "30", "-margin", "5", "-fg", "#ff0000", "-width", "300", "-height", "200"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Text != "flagged" || cfg.Family != text.Named("Go Mono") || cfg.SizePt != 30 || cfg.Margin != 5 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Foreground != render.RGB(0xff, 0, 0) || cfg.Background != render.Background {
		t.Errorf("unexpected colors %06x on %06x", uint32(cfg.Foreground), uint32(cfg.Background))
	}
	if cfg.Width != 300 || cfg.Height != 200 {
		t.Errorf("window %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FontFiles != nil {
		t.Errorf("no font files expected, got %v", cfg.FontFiles)
	}
}

func TestBindFlagsValidates(t *testing.T) {
	for _, args := range [][]string{
		{"-size", "0"},
		{"-margin", "-1"},
		{"-bg", "blue"},
		{"-width", "-5"},
		{"-redraw-interval", "0s"},
	} {
		cfg := DefaultConfig()
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		apply := BindFlags(fs, &cfg)
		if err := fs.Parse(args); err != nil {
			t.Fatalf("Parse(%v): %v", args, err)
		}
		if err := apply(); err == nil {
			t.Errorf("flags %v should be rejected", args)
		}
	}
}
