package render

// Defaults for a new window. The background doubles as the compositing
// reference: glyph coverage is blended against it.
var (
	Foreground = RGB(0x00, 0x00, 0x00)
	Background = RGB(0xFF, 0xFF, 0xFF)

	DefaultWidth  = 720
	DefaultHeight = 480
)
