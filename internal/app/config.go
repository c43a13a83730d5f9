package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rook-computer/glyphpane/internal/render"
	"github.com/rook-computer/glyphpane/internal/state"
	"github.com/rook-computer/glyphpane/internal/text"
)

const (
	EnvText           = "GLYPHPANE_TEXT"
	EnvFont           = "GLYPHPANE_FONT"
	EnvSize           = "GLYPHPANE_SIZE"
	EnvDPI            = "GLYPHPANE_DPI"
	EnvMargin         = "GLYPHPANE_MARGIN"
	EnvBackground     = "GLYPHPANE_BG"
	EnvForeground     = "GLYPHPANE_FG"
	EnvSystemFonts    = "GLYPHPANE_SYSTEM_FONTS"
	EnvFontFiles      = "GLYPHPANE_FONT_FILES"
	EnvRedrawInterval = "GLYPHPANE_REDRAW_INTERVAL"
)

// DemoText exercises forced breaks, right-to-left text, emoji and wrapping.
const DemoText = "Line #1\nLine #2\nمرحبا بالعالم\n💀 💀 💀\nThis is an exceptionally long line! foobar foobar foobar foobar"

// Config holds the settings shared by the window, framebuffer and simulator front ends.
type Config struct {
	Text       string
	Family     text.FontFamily
	SizePt     float64
	DPI        float64
	Margin     int
	Background render.PackedColor
	Foreground render.PackedColor

	// Initial window size. The framebuffer uses the device size instead.
	Width  int
	Height int

	SystemFonts bool
	FontFiles   []string

	// RedrawInterval paces redraws where the display has no damage events.
	RedrawInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Text:           DemoText,
		Family:         text.SansSerif,
		SizePt:         24,
		DPI:            72,
		Background:     render.Background,
		Foreground:     render.Foreground,
		Width:          render.DefaultWidth,
		Height:         render.DefaultHeight,
		SystemFonts:    true,
		RedrawInterval: time.Second / 30,
	}
}

// DefaultConfigFromEnv starts from DefaultConfig and applies GLYPHPANE_* variables.
func DefaultConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if raw := os.Getenv(EnvText); raw != "" {
		cfg.Text = raw
	}
	if raw := os.Getenv(EnvFont); raw != "" {
		family, err := text.ParseFontFamily(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s is invalid (got %q): %w", EnvFont, raw, err)
		}
		cfg.Family = family
	}
	if raw := os.Getenv(EnvSize); raw != "" {
		parsed, err := parsePositiveFloat(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a positive number (got %q): %w", EnvSize, raw, err)
		}
		cfg.SizePt = parsed
	}
	if raw := os.Getenv(EnvDPI); raw != "" {
		parsed, err := parsePositiveFloat(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a positive number (got %q): %w", EnvDPI, raw, err)
		}
		cfg.DPI = parsed
	}
	if raw := os.Getenv(EnvMargin); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			if err == nil {
				err = fmt.Errorf("negative margin")
			}
			return Config{}, fmt.Errorf("%s must be a non-negative integer (got %q): %w", EnvMargin, raw, err)
		}
		cfg.Margin = parsed
	}
	if raw := os.Getenv(EnvBackground); raw != "" {
		c, err := ParseColor(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a hex color (got %q): %w", EnvBackground, raw, err)
		}
		cfg.Background = c
	}
	if raw := os.Getenv(EnvForeground); raw != "" {
		c, err := ParseColor(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a hex color (got %q): %w", EnvForeground, raw, err)
		}
		cfg.Foreground = c
	}
	if raw := os.Getenv(EnvSystemFonts); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvSystemFonts, raw, err)
		}
		cfg.SystemFonts = parsed
	}
	if raw := os.Getenv(EnvFontFiles); raw != "" {
		cfg.FontFiles = SplitFontFiles(raw)
	}
	if raw := os.Getenv(EnvRedrawInterval); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			if err == nil {
				err = fmt.Errorf("non-positive interval")
			}
			return Config{}, fmt.Errorf("%s must be a positive duration (got %q): %w", EnvRedrawInterval, raw, err)
		}
		cfg.RedrawInterval = parsed
	}

	return cfg, nil
}

// Style is the text style the config describes. The wrap width is filled in per frame.
func (cfg Config) Style() text.Style {
	return text.Style{Family: cfg.Family, SizePt: cfg.SizePt, DPI: cfg.DPI}
}

func (cfg Config) Content() state.Content {
	return state.Content{Text: cfg.Text, Style: cfg.Style()}
}

// ParseColor reads "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseColor(s string) (render.PackedColor, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return 0, fmt.Errorf("color %q is not #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, err
	}
	r, g, b := c.RGB255()
	return render.RGB(r, g, b), nil
}

// FormatColor renders c the way ParseColor reads it.
func FormatColor(c render.PackedColor) string {
	return colorful.Color{R: float64(c.R()) / 255, G: float64(c.G()) / 255, B: float64(c.B()) / 255}.Hex()
}

// SplitFontFiles splits a path list on the OS list separator or commas.
func SplitFontFiles(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == filepath.ListSeparator }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parsePositiveFloat(raw string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if !(parsed > 0) {
		return 0, fmt.Errorf("%v is not positive", parsed)
	}
	return parsed, nil
}
