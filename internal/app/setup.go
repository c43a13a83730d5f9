package app

import (
	"github.com/rook-computer/glyphpane/internal/render"
	"github.com/rook-computer/glyphpane/internal/text"
)

// LoadFonts builds the font system cfg asks for. Embedded fonts are always
// available; system fonts and extra files are best-effort and only logged
// when they fail.
func LoadFonts(cfg Config, logger Logger) (*text.FontSystem, error) {
	fonts, err := text.NewFontSystem(logger)
	if err != nil {
		return nil, err
	}
	if cfg.SystemFonts {
		if err := fonts.UseSystemFonts(""); err != nil {
			logger.Errorf("fonts", "system fonts unavailable: %v", err)
		}
	}
	for _, path := range cfg.FontFiles {
		if err := fonts.AddFontFile(path); err != nil {
			logger.Errorf("fonts", "skipping font file: %v", err)
		}
	}
	return fonts, nil
}

// NewFrameRenderer wires a layout builder and rasterizer over fonts.
func NewFrameRenderer(cfg Config, fonts *text.FontSystem, logger Logger) *render.FrameRenderer {
	r := render.NewFrameRenderer(text.NewBuilder(fonts), text.NewRasterizer(fonts))
	r.Foreground = cfg.Foreground
	r.Background = cfg.Background
	r.Margin = cfg.Margin
	r.Logger = logger
	return r
}
