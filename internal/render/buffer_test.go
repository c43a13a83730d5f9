package render

import (
	"math/rand"
	"testing"
)

func TestPixelBufferResizeKeepsArea(t *testing.T) {
	sizes := []struct{ w, h int }{
		{720, 480}, {300, 200}, {1, 1}, {0, 0}, {0, 50}, {50, 0}, {3, 7},
	}
	buf := NewPixelBuffer(10, 10)
	for _, size := range sizes {
		buf.Resize(size.w, size.h)
		if got := len(buf.Cells()); got != size.w*size.h {
			t.Errorf("Resize(%d, %d): %d cells, want %d", size.w, size.h, got, size.w*size.h)
		}
		if buf.Width() != size.w || buf.Height() != size.h {
			t.Errorf("Resize(%d, %d): size %dx%d", size.w, size.h, buf.Width(), buf.Height())
		}
	}
}

func TestPixelBufferResizeClampsNegative(t *testing.T) {
	buf := NewPixelBuffer(-4, 10)
	if buf.Width() != 0 || buf.Height() != 10 || len(buf.Cells()) != 0 {
		t.Errorf("expected 0x10 with no cells, got %dx%d with %d", buf.Width(), buf.Height(), len(buf.Cells()))
	}
}

func TestPixelBufferResizeDropsContent(t *testing.T) {
	buf := NewPixelBuffer(4, 4)
	buf.Fill(RGB(1, 2, 3))
	buf.Resize(4, 4)
	for i, c := range buf.Cells() {
		if c != 0 {
			t.Fatalf("cell %d kept %#06x after resize", i, uint32(c))
		}
	}
}

func TestPixelBufferWriteIfInBounds(t *testing.T) {
	buf := NewPixelBuffer(8, 4)
	red := RGB(0xff, 0, 0)

	buf.WriteIfInBounds(7, 3, red)
	if got := buf.Get(7, 3); got != red {
		t.Errorf("expected %#06x at (7,3), got %#06x", uint32(red), uint32(got))
	}
	if got := buf.Cells()[3*8+7]; got != red {
		t.Errorf("row-major index holds %#06x", uint32(got))
	}
}

func TestPixelBufferOutOfBoundsWritesAreDropped(t *testing.T) {
	const w, h = 16, 9
	buf := NewPixelBuffer(w, h)
	buf.Fill(Background)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		x := rng.Intn(4*w) - 2*w
		y := rng.Intn(4*h) - 2*h
		if x >= 0 && x < w && y >= 0 && y < h {
			continue
		}
		buf.WriteIfInBounds(x, y, RGB(0, 0, 0))
	}
	for i, c := range buf.Cells() {
		if c != Background {
			t.Fatalf("cell %d changed to %#06x by an out-of-bounds write", i, uint32(c))
		}
	}
	if len(buf.Cells()) != w*h {
		t.Errorf("buffer grew to %d cells", len(buf.Cells()))
	}
}

func TestZeroAreaBufferIgnoresWrites(t *testing.T) {
	buf := NewPixelBuffer(0, 0)
	buf.Fill(Background)
	buf.WriteIfInBounds(0, 0, RGB(1, 1, 1))
	if !buf.Empty() || len(buf.Cells()) != 0 {
		t.Errorf("zero-area buffer has %d cells", len(buf.Cells()))
	}
}

func TestPixelBufferFillIsIdempotent(t *testing.T) {
	buf := NewPixelBuffer(5, 3)
	c := RGB(0x12, 0x34, 0x56)
	buf.Fill(c)
	first := append([]PackedColor(nil), buf.Cells()...)
	buf.Fill(c)
	for i := range first {
		if buf.Cells()[i] != first[i] || first[i] != c {
			t.Fatalf("cell %d: %#06x after second fill", i, uint32(buf.Cells()[i]))
		}
	}
}

func TestPackedColorLayout(t *testing.T) {
	c := RGB(0xAB, 0xCD, 0xEF)
	if uint32(c) != 0x00ABCDEF {
		t.Errorf("expected 0x00ABCDEF, got %#08x", uint32(c))
	}
	if c.R() != 0xAB || c.G() != 0xCD || c.B() != 0xEF {
		t.Errorf("channels %x %x %x", c.R(), c.G(), c.B())
	}
	if FromColor(c) != c {
		t.Error("FromColor should keep a PackedColor as is")
	}
}
