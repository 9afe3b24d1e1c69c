//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads a size*size mask into an image and draws it scaled.
type GridPainter struct {
	size int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a square view of the given size.
func NewGridPainter(size int) *GridPainter {
	return &GridPainter{
		size: size,
		img:  ebiten.NewImage(size, size),
		buf:  make([]byte, 4*size*size),
	}
}

// BlitBinary draws a 0/1 mask with two colors.
func (gp *GridPainter) BlitBinary(dst *ebiten.Image, mask []uint8, on, off color.Color, scale int) {
	if len(mask) != gp.size*gp.size {
		return
	}
	fillBinaryRGBA(gp.buf, mask, on, off)
	gp.draw(dst, scale)
}

// BlitPalette draws a mask whose values index palette.
func (gp *GridPainter) BlitPalette(dst *ebiten.Image, mask []uint8, palette []color.RGBA, scale int) {
	if len(mask) != gp.size*gp.size {
		return
	}
	fillPaletteRGBA(gp.buf, mask, palette)
	gp.draw(dst, scale)
}

func (gp *GridPainter) draw(dst *ebiten.Image, scale int) {
	gp.img.WritePixels(gp.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the edge length of the painted view.
func (gp *GridPainter) Size() int { return gp.size }
