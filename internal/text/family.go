package text

import (
	"fmt"
	"strings"
)

// FontFamily is either a generic family or a concrete family name.
type FontFamily struct {
	generic string
	name    string
}

var (
	SansSerif = FontFamily{generic: "sans-serif"}
	Serif     = FontFamily{generic: "serif"}
	Monospace = FontFamily{generic: "monospace"}
)

// Named selects a font by its family name, e.g. "DejaVu Sans".
func Named(name string) FontFamily { return FontFamily{name: strings.TrimSpace(name)} }

// ParseFontFamily accepts the generic keywords or any family name.
func ParseFontFamily(s string) (FontFamily, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return FontFamily{}, fmt.Errorf("empty font family")
	case "sans-serif", "sans", "sansserif":
		return SansSerif, nil
	case "serif":
		return Serif, nil
	case "monospace", "mono":
		return Monospace, nil
	}
	return Named(s), nil
}

// Generic reports whether f is one of the generic families.
func (f FontFamily) Generic() bool { return f.generic != "" }

// Name returns the family name used for font matching.
func (f FontFamily) Name() string {
	if f.generic != "" {
		return f.generic
	}
	return f.name
}

func (f FontFamily) String() string { return f.Name() }

// embeddedFallback names the embedded family closest to f.
func (f FontFamily) embeddedFallback() string {
	if f == Monospace {
		return EmbeddedMono
	}
	return EmbeddedSans
}
