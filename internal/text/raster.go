package text

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/golang/freetype/raster"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
)

// Coverage is one rasterized pixel in layout coordinates.
type Coverage struct {
	X, Y  int
	Alpha uint8
	// Color is only meaningful when Colored is set, for bitmap glyphs such as emoji.
	Color   color.NRGBA
	Colored bool
}

// CoverageVisitor receives the samples of one glyph.
type CoverageVisitor interface {
	VisitCoverage(c Coverage)
}

// CoverageFunc adapts a function to CoverageVisitor.
type CoverageFunc func(c Coverage)

func (f CoverageFunc) VisitCoverage(c Coverage) { f(c) }

type bitmapKey struct {
	face *font.Face
	id   font.GID
	w, h int
}

// Rasterizer turns positioned glyphs into coverage samples. Outline glyphs
// go through an anti-aliasing scanline rasterizer; color bitmap glyphs are
// decoded and scaled to the glyph box. It is not safe for concurrent use.
type Rasterizer struct {
	fonts   *FontSystem
	scan    *raster.Rasterizer
	bitmaps map[bitmapKey]*image.NRGBA
}

func NewRasterizer(fonts *FontSystem) *Rasterizer {
	return &Rasterizer{
		fonts:   fonts,
		scan:    raster.NewRasterizer(0, 0),
		bitmaps: map[bitmapKey]*image.NRGBA{},
	}
}

// Rasterize visits every non-transparent pixel of g that lies inside clip,
// both in layout coordinates. The glyph origin is rounded to the nearest
// pixel first, so samples are whole-pixel positions.
func (rz *Rasterizer) Rasterize(g Glyph, clip image.Rectangle, v CoverageVisitor) {
	if g.Face == nil || g.ID == font.EmptyGlyph || g.Size <= 0 || g.Size.Round() > MaxSizePx || clip.Empty() {
		return
	}
	ox, oy := g.X.Round(), g.Y.Round()

	ppem := uint16(g.Size.Round())
	g.Face.SetPpem(ppem, ppem)

	switch data := g.Face.GlyphData(g.ID).(type) {
	case font.GlyphOutline:
		rz.outline(g, data.Segments, ox, oy, clip, v)
	case font.GlyphBitmap:
		if err := rz.bitmap(g, data, ox, oy, clip, v); err != nil {
			rz.logError("glyph %d bitmap: %v", g.ID, err)
			if data.Outline != nil {
				rz.outline(g, data.Outline.Segments, ox, oy, clip, v)
			}
		}
	case font.GlyphSVG:
		rz.outline(g, data.Outline.Segments, ox, oy, clip, v)
	case font.GlyphColor:
		if out, ok := g.Face.GlyphDataOutline(tables.GlyphID(g.ID)); ok {
			rz.outline(g, out.Segments, ox, oy, clip, v)
		}
	}
}

func (rz *Rasterizer) outline(g Glyph, segments []font.Segment, ox, oy int, clip image.Rectangle, v CoverageVisitor) {
	if len(segments) == 0 {
		return
	}
	scale := float32(g.Size) / 64 / float32(g.Face.Upem())

	// Control points bound the curves, so their box bounds the ink.
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, s := range segments {
		for _, p := range s.ArgsSlice() {
			x, y := p.X*scale, -p.Y*scale
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	box := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX)))+1, int(math.Ceil(float64(maxY)))+1,
	)
	// The scanline rasterizer drops cells outside its bounds, so only the
	// visible part of the glyph produces spans.
	visible := box.Add(image.Pt(ox, oy)).Intersect(clip)
	if visible.Empty() {
		return
	}
	minX, minY = float32(visible.Min.X-ox), float32(visible.Min.Y-oy)

	rz.scan.SetBounds(visible.Dx(), visible.Dy())
	rz.scan.Clear()
	rz.scan.UseNonZeroWinding = true
	rz.scan.Dx = visible.Min.X
	rz.scan.Dy = visible.Min.Y

	toFixed := func(p ot.SegmentPoint) fixed.Point26_6 {
		return fixed.Point26_6{
			X: fixed.Int26_6(math.Round(float64((p.X*scale - minX) * 64))),
			Y: fixed.Int26_6(math.Round(float64((-p.Y*scale - minY) * 64))),
		}
	}

	var start, pen fixed.Point26_6
	open := false
	for _, s := range segments {
		switch s.Op {
		case ot.SegmentOpMoveTo:
			if open && pen != start {
				rz.scan.Add1(start)
			}
			start = toFixed(s.Args[0])
			pen = start
			rz.scan.Start(start)
			open = true
		case ot.SegmentOpLineTo:
			pen = toFixed(s.Args[0])
			rz.scan.Add1(pen)
		case ot.SegmentOpQuadTo:
			pen = toFixed(s.Args[1])
			rz.scan.Add2(toFixed(s.Args[0]), pen)
		case ot.SegmentOpCubeTo:
			pen = toFixed(s.Args[2])
			rz.scan.Add3(toFixed(s.Args[0]), toFixed(s.Args[1]), pen)
		}
	}
	if open && pen != start {
		rz.scan.Add1(start)
	}

	rz.scan.Rasterize(raster.PainterFunc(func(spans []raster.Span, done bool) {
		for _, span := range spans {
			alpha := uint8(span.Alpha >> 8)
			if alpha == 0 {
				continue
			}
			for x := span.X0; x < span.X1; x++ {
				v.VisitCoverage(Coverage{X: x, Y: span.Y, Alpha: alpha})
			}
		}
	}))
}

func (rz *Rasterizer) bitmap(g Glyph, data font.GlyphBitmap, ox, oy int, clip image.Rectangle, v CoverageVisitor) error {
	dst := image.Rect(
		ox+g.Bounds.Min.X.Round(), oy+g.Bounds.Min.Y.Round(),
		ox+g.Bounds.Max.X.Round(), oy+g.Bounds.Max.Y.Round(),
	)
	if dst.Empty() {
		dst = image.Rect(ox, oy-data.Height, ox+data.Width, oy)
	}
	visible := dst.Intersect(clip)
	if visible.Empty() {
		return nil
	}

	if data.Format == font.BlackAndWhite {
		// Bits are packed row after row with no padding.
		for y := visible.Min.Y - dst.Min.Y; y < visible.Max.Y-dst.Min.Y; y++ {
			sy := y * data.Height / dst.Dy()
			for x := visible.Min.X - dst.Min.X; x < visible.Max.X-dst.Min.X; x++ {
				sx := x * data.Width / dst.Dx()
				bit := sy*data.Width + sx
				if bit/8 >= len(data.Data) || data.Data[bit/8]&(0x80>>(bit%8)) == 0 {
					continue
				}
				v.VisitCoverage(Coverage{X: dst.Min.X + x, Y: dst.Min.Y + y, Alpha: 0xff})
			}
		}
		return nil
	}

	key := bitmapKey{face: g.Face, id: g.ID, w: dst.Dx(), h: dst.Dy()}
	scaled, ok := rz.bitmaps[key]
	if !ok {
		src, err := decodeBitmap(data)
		if err != nil {
			return err
		}
		scaled = image.NewNRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
		xdraw.BiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		rz.bitmaps[key] = scaled
	}

	for y := visible.Min.Y - dst.Min.Y; y < visible.Max.Y-dst.Min.Y; y++ {
		for x := visible.Min.X - dst.Min.X; x < visible.Max.X-dst.Min.X; x++ {
			c := scaled.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			v.VisitCoverage(Coverage{X: dst.Min.X + x, Y: dst.Min.Y + y, Alpha: c.A, Color: c, Colored: true})
		}
	}
	return nil
}

func decodeBitmap(data font.GlyphBitmap) (image.Image, error) {
	r := bytes.NewReader(data.Data)
	switch data.Format {
	case font.PNG:
		return png.Decode(r)
	case font.JPG:
		return jpeg.Decode(r)
	case font.TIFF:
		return tiff.Decode(r)
	}
	return nil, fmt.Errorf("unsupported bitmap format %d", data.Format)
}

func (rz *Rasterizer) logError(format string, args ...interface{}) {
	if rz.fonts == nil || rz.fonts.logger == nil {
		return
	}
	rz.fonts.logger.Errorf("raster", format, args...)
}
