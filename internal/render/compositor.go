package render

import "github.com/rook-computer/glyphpane/internal/text"

// Composite blends one coverage sample into buf.
//
// The sample is blended against bg, the color the buffer was cleared to, not
// against the pixel currently stored. Overlapping glyphs therefore do not
// accumulate; the last write wins. Color bitmap samples bring their own RGB,
// outline samples take fg.
func Composite(buf *PixelBuffer, c text.Coverage, fg, bg PackedColor) {
	src := fg
	if c.Colored {
		src = RGB(c.Color.R, c.Color.G, c.Color.B)
	}
	a := uint32(c.Alpha)
	out := RGB(
		blendChannel(src.R(), bg.R(), a),
		blendChannel(src.G(), bg.G(), a),
		blendChannel(src.B(), bg.B(), a),
	)
	buf.WriteIfInBounds(c.X, c.Y, out)
}

// blendChannel returns round(fg*a/255 + bg*(255-a)/255) in integer math.
func blendChannel(fg, bg uint8, a uint32) uint8 {
	if a > 255 {
		a = 255
	}
	v := (uint32(fg)*a + uint32(bg)*(255-a) + 127) / 255
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// compositor feeds rasterizer output into a buffer, offset by the text origin.
type compositor struct {
	buf    *PixelBuffer
	dx, dy int
	fg, bg PackedColor
}

func (c *compositor) VisitCoverage(s text.Coverage) {
	s.X += c.dx
	s.Y += c.dy
	Composite(c.buf, s, c.fg, c.bg)
}
