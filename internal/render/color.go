package render

import "image/color"

// PackedColor is an opaque RGB value laid out as 0x00RRGGBB.
// The top byte is unused and always written as zero.
type PackedColor uint32

// RGB packs three 8-bit channels.
func RGB(r, g, b uint8) PackedColor {
	return PackedColor(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// FromColor packs any color.Color, dropping its alpha.
func FromColor(c color.Color) PackedColor {
	if p, ok := c.(PackedColor); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

func (c PackedColor) R() uint8 { return uint8(c >> 16) }
func (c PackedColor) G() uint8 { return uint8(c >> 8) }
func (c PackedColor) B() uint8 { return uint8(c) }

// RGBA implements color.Color. Packed colors are always opaque.
func (c PackedColor) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R())
	r |= r << 8
	g = uint32(c.G())
	g |= g << 8
	b = uint32(c.B())
	b |= b << 8
	return r, g, b, 0xffff
}

// PackedModel converts colors to PackedColor.
var PackedModel = color.ModelFunc(func(c color.Color) color.Color { return FromColor(c) })
