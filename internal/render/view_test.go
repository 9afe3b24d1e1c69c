package render

import (
	"image/color"
	"slices"
	"testing"

	"life3d/internal/core"
)

func TestSliceMask(t *testing.T) {
	cells := []core.Point{{X: 1, Y: 0, Z: 2}, {X: 0, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 0}}
	mask := SliceMask(cells, 3, 2)
	want := []uint8{
		0, 1, 0,
		0, 0, 0,
		1, 0, 0,
	}
	if !slices.Equal(mask, want) {
		t.Fatalf("mask %v, expected %v", mask, want)
	}
	if !slices.Equal(SliceMask(cells, 3, -1), want) {
		t.Fatal("layer -1 should wrap to the top layer")
	}
	if SliceMask(cells, 0, 0) != nil {
		t.Fatal("empty domain should yield no mask")
	}
}

func TestProjectionMask(t *testing.T) {
	cells := []core.Point{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 5, Y: 0, Z: 0}}
	mask := ProjectionMask(cells, 2)
	if !slices.Equal(mask, []uint8{2, 0, 0, 1}) {
		t.Fatalf("projection %v", mask)
	}

	many := make([]core.Point, 300)
	if got := ProjectionMask(many, 1)[0]; got != 255 {
		t.Fatalf("projection should saturate, got %d", got)
	}
}

func TestPickCell(t *testing.T) {
	cases := []struct {
		px, py, scale int
		x, y          int
		ok            bool
	}{
		{0, 0, 16, 0, 0, true},
		{31, 17, 16, 1, 1, true},
		{16 * 8, 0, 16, 0, 0, false},
		{-1, 0, 16, 0, 0, false},
		{5, 5, 0, 0, 0, false},
	}
	for _, c := range cases {
		x, y, ok := PickCell(c.px, c.py, c.scale, 8)
		if ok != c.ok || (ok && (x != c.x || y != c.y)) {
			t.Fatalf("PickCell(%d,%d,%d)=(%d,%d,%v)", c.px, c.py, c.scale, x, y, ok)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeSlice.String() != "slice" || ModeProjection.String() != "projection" {
		t.Fatal("unexpected mode names")
	}
}

func TestFillBinaryRGBA(t *testing.T) {
	buf := make([]byte, 8)
	fillBinaryRGBA(buf, []uint8{1, 0}, color.White, color.RGBA{A: 255})
	if !slices.Equal(buf, []byte{255, 255, 255, 255, 0, 0, 0, 255}) {
		t.Fatalf("pixels %v", buf)
	}
}

func TestFillPaletteRGBA(t *testing.T) {
	palette := []color.RGBA{{A: 255}, {R: 10, A: 255}, {R: 20, A: 255}}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{0, 1, 9}, palette)
	if buf[0] != 0 || buf[4] != 10 || buf[8] != 20 {
		t.Fatalf("pixels %v", buf)
	}
	fillPaletteRGBA(buf, []uint8{0, 1, 9}, nil)
	if slices.ContainsFunc(buf, func(b byte) bool { return b != 0 }) {
		t.Fatal("empty palette should clear the buffer")
	}
}

func TestDepthPalette(t *testing.T) {
	on := color.RGBA{R: 200, G: 100, B: 0, A: 255}
	off := color.RGBA{A: 255}
	pal := DepthPalette(4, on, off)
	if len(pal) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(pal))
	}
	if pal[0] != off || pal[4] != on {
		t.Fatalf("palette endpoints %v %v", pal[0], pal[4])
	}
	for i := 1; i < len(pal); i++ {
		if pal[i].R <= pal[i-1].R {
			t.Fatalf("palette not increasing at %d: %v", i, pal)
		}
	}
	if len(DepthPalette(0, on, off)) != 2 {
		t.Fatal("levels below 1 should be coerced")
	}
}
