package render

import (
	"fmt"
	"image"

	"github.com/rook-computer/glyphpane/internal/render/layout"
	"github.com/rook-computer/glyphpane/internal/state"
	"github.com/rook-computer/glyphpane/internal/text"
)

// LayoutBuilder produces a wrapped, positioned layout for a frame.
type LayoutBuilder interface {
	Build(s string, style text.Style) (*text.Layout, error)
}

// GlyphRasterizer reports the coverage of one positioned glyph. Samples
// outside clip, given in layout coordinates, are not reported.
type GlyphRasterizer interface {
	Rasterize(g text.Glyph, clip image.Rectangle, v text.CoverageVisitor)
}

// Presenter hands a finished frame to the display. cells holds exactly
// width*height packed pixels, row-major with no padding.
type Presenter interface {
	Present(cells []PackedColor, width, height int) error
}

// FrameRenderer draws the displayed text into a PixelBuffer.
type FrameRenderer struct {
	Layout     LayoutBuilder
	Raster     GlyphRasterizer
	Foreground PackedColor
	Background PackedColor
	// Margin insets the text area from every buffer edge.
	Margin int
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

func NewFrameRenderer(builder LayoutBuilder, rasterizer GlyphRasterizer) *FrameRenderer {
	return &FrameRenderer{
		Layout:     builder,
		Raster:     rasterizer,
		Foreground: Foreground,
		Background: Background,
	}
}

// Render clears buf to the background and draws content on top of it.
//
// The layout is rebuilt every call with the text area width as wrap width,
// so a resized buffer rewraps on the next frame. When the layout cannot be
// built the error is returned and buf holds a background-only frame, which
// callers still present.
func (r *FrameRenderer) Render(buf *PixelBuffer, content state.Content) error {
	buf.Fill(r.Background)
	if buf.Empty() {
		return nil
	}

	area := layout.TextArea(buf.Bounds(), r.Margin)

	style := content.Style
	style.MaxWidthPx = float64(area.Dx())
	l, err := r.Layout.Build(content.Text, style)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Errorf("render", "layout failed: %v", err)
		}
		return fmt.Errorf("render frame %dx%d: %w", buf.Width(), buf.Height(), err)
	}

	// Glyphs may spill into the margin but never past the buffer.
	clip := buf.Bounds().Sub(area.Min)
	c := &compositor{buf: buf, dx: area.Min.X, dy: area.Min.Y, fg: r.Foreground, bg: r.Background}
	for _, line := range l.Lines {
		for _, g := range line.Glyphs {
			r.Raster.Rasterize(g, clip, c)
		}
	}
	return nil
}
