package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// TextArea returns the region text is laid out in: bounds inset by marginPx.
// A margin that leaves no room, or would cross over itself, is ignored.
func TextArea(bounds image.Rectangle, marginPx int) image.Rectangle {
	bounds = Normalize(bounds)
	area := Inset(bounds, marginPx)
	if area.Empty() || !area.In(bounds) || 2*marginPx >= bounds.Dx() || 2*marginPx >= bounds.Dy() {
		return bounds
	}
	return area
}
