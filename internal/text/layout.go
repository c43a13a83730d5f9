package text

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"
)

// ErrLayoutFailure is wrapped by every error Build returns.
var ErrLayoutFailure = errors.New("layout failure")

// MaxSizePx is the largest font size Build accepts, the largest ppem a face can be set to.
const MaxSizePx = math.MaxUint16

// Style selects how text is laid out.
type Style struct {
	Family FontFamily
	// SizePt is the font size in points. It must be positive.
	SizePt float64
	// MaxWidthPx is the wrap width. Zero disables wrapping.
	MaxWidthPx float64
	// DPI converts points to pixels; zero means 72, where one point is one pixel.
	DPI float64
}

// SizePx is the font size in pixels.
func (s Style) SizePx() float64 {
	dpi := s.DPI
	if dpi <= 0 {
		dpi = 72
	}
	return s.SizePt * dpi / 72
}

// Glyph is one positioned glyph. X and Y locate the pen on the baseline,
// relative to the top-left of the layout, with offsets already applied.
type Glyph struct {
	ID   font.GID
	Face *font.Face
	// Size is the pixels-per-em the glyph was shaped at.
	Size fixed.Int26_6
	X, Y fixed.Int26_6
	// Ink extents relative to (X, Y), y growing down.
	Bounds fixed.Rectangle26_6
}

// Line is a row of glyphs in left-to-right visual order.
type Line struct {
	Glyphs    []Glyph
	Baseline  fixed.Int26_6
	Top       fixed.Int26_6
	Height    fixed.Int26_6
	Width     fixed.Int26_6
	Direction di.Direction
}

// Layout is the immutable result of Build. Lines are ordered top to bottom.
type Layout struct {
	Lines  []Line
	Width  fixed.Int26_6
	Height fixed.Int26_6
}

// GlyphCount returns the number of glyphs across all lines.
func (l *Layout) GlyphCount() int {
	n := 0
	for _, line := range l.Lines {
		n += len(line.Glyphs)
	}
	return n
}

type layoutKey struct {
	text  string
	style Style
}

// Builder shapes and wraps text with the fonts of one FontSystem.
// It keeps the most recent layout and returns it again when text and style
// are unchanged.
type Builder struct {
	fonts   *FontSystem
	shaper  shaping.HarfbuzzShaper
	seg     shaping.Segmenter
	wrapper shaping.LineWrapper
	lang    language.Language

	lastKey    layoutKey
	lastLayout *Layout
}

func NewBuilder(fonts *FontSystem) *Builder {
	return &Builder{fonts: fonts, lang: language.DefaultLanguage()}
}

// Build lays out text. Every newline forces a line break and lines are
// wrapped to style.MaxWidthPx. Paragraphs whose first strong character is
// right-to-left are right-aligned within the wrap width.
func (b *Builder) Build(text string, style Style) (*Layout, error) {
	if b.fonts == nil {
		return nil, fmt.Errorf("%w: no font system", ErrLayoutFailure)
	}
	px := style.SizePx()
	if !(px > 0) || px > MaxSizePx {
		return nil, fmt.Errorf("%w: invalid font size %vpt (%vpx, limit %dpx)", ErrLayoutFailure, style.SizePt, px, MaxSizePx)
	}
	if style.Family == (FontFamily{}) {
		style.Family = SansSerif
	}
	if !style.Family.Generic() && !b.fonts.HasFamily(style.Family.Name()) {
		return nil, fmt.Errorf("%w: unknown font family %q", ErrLayoutFailure, style.Family.Name())
	}

	key := layoutKey{text: text, style: style}
	if b.lastLayout != nil && b.lastKey == key {
		return b.lastLayout, nil
	}

	size := fixed.Int26_6(math.Round(px * 64))
	maxWidth := math.MaxInt32
	if style.MaxWidthPx > 0 {
		maxWidth = int(math.Floor(style.MaxWidthPx))
	}

	b.fonts.query(style.Family)
	text = strings.ReplaceAll(norm.NFC.String(text), "\r\n", "\n")

	layout := &Layout{}
	var y fixed.Int26_6
	for _, paragraph := range strings.Split(text, "\n") {
		runes := []rune(paragraph)
		dir := paragraphDirection(runes)
		if len(runes) == 0 {
			bounds, err := b.emptyLineBounds(size)
			if err != nil {
				return nil, err
			}
			height := bounds.LineThickness()
			layout.Lines = append(layout.Lines, Line{Baseline: y + bounds.Ascent, Top: y, Height: height, Direction: dir})
			y += height
			continue
		}

		input := shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: dir,
			Size:      size,
			Language:  b.lang,
		}
		runs := b.seg.Split(input, b.fonts.fonts)
		outs := make([]shaping.Output, 0, len(runs))
		for _, run := range runs {
			if run.Face == nil {
				return nil, fmt.Errorf("%w: no font covers %q", ErrLayoutFailure, string(runes[run.RunStart:run.RunEnd]))
			}
			outs = append(outs, b.shaper.Shape(run))
		}

		lines, _ := b.wrapper.WrapParagraph(shaping.WrapConfig{Direction: dir, BreakPolicy: shaping.WhenNecessary}, maxWidth, runes, shaping.NewSliceIterator(outs))
		for _, wrapped := range lines {
			line := placeLine(wrapped, dir, y, maxWidth)
			layout.Lines = append(layout.Lines, line)
			y += line.Height
		}
	}

	for _, line := range layout.Lines {
		if line.Width > layout.Width {
			layout.Width = line.Width
		}
	}
	layout.Height = y

	b.lastKey = key
	b.lastLayout = layout
	return layout, nil
}

// placeLine copies a wrapped line into owned glyphs. The wrapper reuses its
// buffers on the next call.
func placeLine(wrapped shaping.Line, dir di.Direction, top fixed.Int26_6, maxWidth int) Line {
	runs := make([]shaping.Output, len(wrapped))
	copy(runs, wrapped)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].VisualIndex < runs[j].VisualIndex })

	var ascent, descent, gap, width fixed.Int26_6
	count := 0
	for _, run := range runs {
		ascent = max(ascent, run.LineBounds.Ascent)
		descent = min(descent, run.LineBounds.Descent)
		gap = max(gap, run.LineBounds.Gap)
		width += run.Advance
		count += len(run.Glyphs)
	}

	line := Line{
		Glyphs:    make([]Glyph, 0, count),
		Top:       top,
		Baseline:  top + ascent,
		Height:    ascent - descent + gap,
		Width:     width,
		Direction: dir,
	}

	var x fixed.Int26_6
	if dir.Progression() == di.TowardTopLeft && maxWidth < math.MaxInt32 {
		if slack := fixed.I(maxWidth) - width; slack > 0 {
			x = slack
		}
	}
	for _, run := range runs {
		for _, g := range run.Glyphs {
			line.Glyphs = append(line.Glyphs, Glyph{
				ID:   g.GlyphID,
				Face: run.Face,
				Size: run.Size,
				X:    x + g.XOffset,
				Y:    line.Baseline - g.YOffset,
				Bounds: fixed.Rectangle26_6{
					Min: fixed.Point26_6{X: g.XBearing, Y: -g.YBearing},
					Max: fixed.Point26_6{X: g.XBearing + g.Width, Y: -g.YBearing - g.Height},
				},
			})
			x += g.Advance
		}
	}
	return line
}

// emptyLineBounds measures a blank line using the face chosen for a space.
func (b *Builder) emptyLineBounds(size fixed.Int26_6) (shaping.Bounds, error) {
	face := b.fonts.fonts.ResolveFace(' ')
	if face == nil {
		return shaping.Bounds{}, fmt.Errorf("%w: no font available", ErrLayoutFailure)
	}
	out := b.shaper.Shape(shaping.Input{
		Text:      []rune{' '},
		RunEnd:    1,
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      size,
		Script:    language.Latin,
		Language:  b.lang,
	})
	return out.LineBounds, nil
}

// paragraphDirection follows the first strong character.
func paragraphDirection(runes []rune) di.Direction {
	for _, r := range runes {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return di.DirectionLTR
		case bidi.R, bidi.AL:
			return di.DirectionRTL
		}
	}
	return di.DirectionLTR
}
