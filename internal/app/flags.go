package app

import (
	"flag"
	"fmt"
	"strings"

	"github.com/rook-computer/glyphpane/internal/text"
)

// BindFlags registers the shared content and font flags on fs, defaulting
// to the values already in cfg. Call the returned function after fs.Parse
// to validate the flags and copy them into cfg.
func BindFlags(fs *flag.FlagSet, cfg *Config) func() error {
	textValue := fs.String("text", cfg.Text, "text to display; also configurable via "+EnvText)
	font := fs.String("font", cfg.Family.Name(), "font family: sans-serif | serif | monospace | <family name>; also configurable via "+EnvFont)
	size := fs.Float64("size", cfg.SizePt, "font size in points; also configurable via "+EnvSize)
	dpi := fs.Float64("dpi", cfg.DPI, "resolution used to convert points to pixels; also configurable via "+EnvDPI)
	margin := fs.Int("margin", cfg.Margin, "text margin in pixels; also configurable via "+EnvMargin)
	bg := fs.String("bg", FormatColor(cfg.Background), "background color (#rrggbb); also configurable via "+EnvBackground)
	fg := fs.String("fg", FormatColor(cfg.Foreground), "text color (#rrggbb); also configurable via "+EnvForeground)
	width := fs.Int("width", cfg.Width, "initial window width in pixels")
	height := fs.Int("height", cfg.Height, "initial window height in pixels")
	systemFonts := fs.Bool("system-fonts", cfg.SystemFonts, "index installed fonts for family lookup and fallback; also configurable via "+EnvSystemFonts)
	fontFiles := fs.String("font-files", strings.Join(cfg.FontFiles, ","), "comma separated font files to register; also configurable via "+EnvFontFiles)
	interval := fs.Duration("redraw-interval", cfg.RedrawInterval, "redraw pacing for outputs without damage events; also configurable via "+EnvRedrawInterval)

	return func() error {
		family, err := text.ParseFontFamily(*font)
		if err != nil {
			return fmt.Errorf("-font: %w", err)
		}
		if !(*size > 0) {
			return fmt.Errorf("-size must be positive (got %v)", *size)
		}
		if !(*dpi > 0) {
			return fmt.Errorf("-dpi must be positive (got %v)", *dpi)
		}
		if *margin < 0 {
			return fmt.Errorf("-margin must not be negative (got %d)", *margin)
		}
		if *width < 0 || *height < 0 {
			return fmt.Errorf("-width and -height must not be negative (got %dx%d)", *width, *height)
		}
		if *interval <= 0 {
			return fmt.Errorf("-redraw-interval must be positive (got %s)", *interval)
		}
		background, err := ParseColor(*bg)
		if err != nil {
			return fmt.Errorf("-bg: %w", err)
		}
		foreground, err := ParseColor(*fg)
		if err != nil {
			return fmt.Errorf("-fg: %w", err)
		}

		cfg.Text = *textValue
		cfg.Family = family
		cfg.SizePt = *size
		cfg.DPI = *dpi
		cfg.Margin = *margin
		cfg.Background = background
		cfg.Foreground = foreground
		cfg.Width = *width
		cfg.Height = *height
		cfg.SystemFonts = *systemFonts
		cfg.FontFiles = SplitFontFiles(*fontFiles)
		cfg.RedrawInterval = *interval
		return nil
	}
}
