package render

import (
	"image"
	"image/color"
)

// PixelBuffer is a row-major grid of packed colors with no row padding.
// len(Cells()) == Width()*Height() holds after every operation.
type PixelBuffer struct {
	width  int
	height int
	cells  []PackedColor
}

func NewPixelBuffer(width, height int) *PixelBuffer {
	b := &PixelBuffer{}
	b.Resize(width, height)
	return b
}

// Resize reallocates the buffer. Previous content is not preserved.
// Negative dimensions are treated as zero.
func (b *PixelBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.width = width
	b.height = height
	b.cells = make([]PackedColor, width*height)
}

// Fill sets every cell to c.
func (b *PixelBuffer) Fill(c PackedColor) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// WriteIfInBounds stores c at (x, y) and silently drops writes outside the grid.
func (b *PixelBuffer) WriteIfInBounds(x, y int, c PackedColor) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = c
}

func (b *PixelBuffer) Width() int  { return b.width }
func (b *PixelBuffer) Height() int { return b.height }

// Empty reports whether the buffer has zero area.
func (b *PixelBuffer) Empty() bool { return len(b.cells) == 0 }

// Cells exposes the backing slice for presentation. Callers must not retain it across a Resize.
func (b *PixelBuffer) Cells() []PackedColor { return b.cells }

// Get returns the cell at (x, y), or zero outside the grid.
func (b *PixelBuffer) Get(x, y int) PackedColor {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0
	}
	return b.cells[y*b.width+x]
}

// The methods below let a buffer be handed to image encoders directly.

func (b *PixelBuffer) ColorModel() color.Model { return PackedModel }

func (b *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

func (b *PixelBuffer) At(x, y int) color.Color { return b.Get(x, y) }
