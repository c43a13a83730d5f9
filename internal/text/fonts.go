package text

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Families of the fonts compiled into the binary.
const (
	EmbeddedSans = "Go"
	EmbeddedMono = "Go Mono"
)

// FontSystem owns the font database used for layout and rasterization.
// It replaces any process-wide font state: every builder and rasterizer is
// handed the FontSystem it works with. A FontSystem is not safe for
// concurrent layout; the window loop drives it from one goroutine.
type FontSystem struct {
	fonts  *fontscan.FontMap
	logger logger

	mu       sync.RWMutex
	families map[string]bool
	system   bool
}

// NewFontSystem builds a font database seeded with the embedded Go fonts,
// so layout works without any fonts installed on the host.
func NewFontSystem(l logger) (*FontSystem, error) {
	fs := &FontSystem{logger: l, families: map[string]bool{}}
	fs.fonts = fontscan.NewFontMap(printfLogger{l: l})
	embedded := []struct {
		name string
		data []byte
	}{
		{"goregular", goregular.TTF},
		{"gobold", gobold.TTF},
		{"goitalic", goitalic.TTF},
		{"gomono", gomono.TTF},
	}
	for _, e := range embedded {
		if err := fs.addFontData(e.data, "embedded:"+e.name); err != nil {
			return nil, fmt.Errorf("load embedded font %s: %w", e.name, err)
		}
	}
	return fs, nil
}

// UseSystemFonts indexes the fonts installed on the host. The index is cached
// in cacheDir; an empty cacheDir uses the user cache directory. Embedded fonts
// stay registered and take part in fallback.
func (fs *FontSystem) UseSystemFonts(cacheDir string) error {
	if err := fs.fonts.UseSystemFonts(cacheDir); err != nil {
		return fmt.Errorf("scan system fonts: %w", err)
	}
	fs.mu.Lock()
	fs.system = true
	fs.mu.Unlock()
	if fs.logger != nil {
		fs.logger.Infof("fonts", "system font index loaded")
	}
	return nil
}

// AddFontFile registers a TrueType or OpenType file under its own family name.
func (fs *FontSystem) AddFontFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fs.addFontData(data, filepath.Clean(path))
}

func (fs *FontSystem) addFontData(data []byte, fileID string) error {
	// The freetype parser only understands glyf outlines; CFF fonts fall back
	// to the family name go-text reads from the file.
	family := ""
	if tt, err := truetype.Parse(data); err == nil {
		family = tt.Name(truetype.NameIDFontFamily)
	}
	if err := fs.fonts.AddFont(bytes.NewReader(data), fileID, family); err != nil {
		return err
	}
	if family == "" {
		if face, err := font.ParseTTF(bytes.NewReader(data)); err == nil {
			family = face.Describe().Family
		}
	}
	if family != "" {
		fs.mu.Lock()
		fs.families[font.NormalizeFamily(family)] = true
		fs.mu.Unlock()
	}
	if fs.logger != nil {
		fs.logger.Infof("fonts", "registered %s (family %q)", fileID, family)
	}
	return nil
}

// HasFamily reports whether a named family can be resolved exactly, either
// from registered files or from the system index.
func (fs *FontSystem) HasFamily(name string) bool {
	normalized := font.NormalizeFamily(name)
	fs.mu.RLock()
	known := fs.families[normalized]
	system := fs.system
	fs.mu.RUnlock()
	if known {
		return true
	}
	if !system {
		return false
	}
	_, ok := fs.fonts.FindSystemFont(name)
	return ok
}

// Families lists the registered (non-system) family names, normalized.
func (fs *FontSystem) Families() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, 0, len(fs.families))
	for name := range fs.families {
		out = append(out, name)
	}
	return out
}

// query selects family for the next face resolution. With a system index,
// generic families resolve through its substitutions and the embedded fonts
// only serve as the last fallback; an exact match on them would shadow the
// installed fonts.
func (fs *FontSystem) query(family FontFamily) {
	fs.mu.RLock()
	system := fs.system
	fs.mu.RUnlock()

	families := []string{family.Name()}
	if fallback := family.embeddedFallback(); !system && !strings.EqualFold(fallback, family.Name()) {
		families = append(families, fallback)
	}
	fs.fonts.SetQuery(fontscan.Query{Families: families})
}

// printfLogger adapts the component logger to fontscan's Printf logger.
type printfLogger struct{ l logger }

func (p printfLogger) Printf(format string, args ...interface{}) {
	if p.l == nil {
		return
	}
	p.l.Infof("fonts", format, args...)
}
