//go:build ebiten

package ui

import (
	"image/color"

	"life3d/internal/core"
	"life3d/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RegionSource supplies the cells the next step will evaluate.
type RegionSource interface {
	ActiveRegion() []core.Point
}

// Overlay draws the active region and the editing cursor on top of the view.
type Overlay struct {
	src        RegionSource
	scale      int
	size       int
	showActive bool

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(src RegionSource, size, scale int) *Overlay {
	o := &Overlay{src: src, size: size, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	o.maskImg = ebiten.NewImage(size, size)
	o.maskBuf = make([]byte, 4*size*size)
	return o
}

// Update toggles the active-region view with the A key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		o.showActive = !o.showActive
	}
}

// ShowingActive reports whether the active region is drawn.
func (o *Overlay) ShowingActive() bool { return o.showActive }

// Draw renders the overlay for the given view mode and z layer.
func (o *Overlay) Draw(screen *ebiten.Image, mode render.Mode, layer int) {
	if o.showActive {
		region := o.src.ActiveRegion()
		var mask []uint8
		if mode == render.ModeProjection {
			mask = render.ProjectionMask(region, o.size)
		} else {
			mask = render.SliceMask(region, o.size, layer)
		}
		fillBinaryTint(o.maskBuf, mask, color.RGBA{R: 90, G: 60, B: 160, A: 90})
		o.maskImg.WritePixels(o.maskBuf)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(o.scale), float64(o.scale))
		screen.DrawImage(o.maskImg, op)
	}
	if mode == render.ModeSlice {
		mx, my := ebiten.CursorPosition()
		if x, y, ok := render.PickCell(mx, my, o.scale, o.size); ok {
			o.drawCursor(screen, x, y)
		}
	}
}

func (o *Overlay) drawCursor(screen *ebiten.Image, x, y int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	op.GeoM.Translate(float64(x*o.scale), float64(y*o.scale))
	op.ColorScale.ScaleWithColor(color.NRGBA{R: 255, G: 255, B: 255, A: 60})
	screen.DrawImage(o.pixel, op)
}

// fillBinaryTint writes premultiplied tint where mask is set and transparent
// pixels elsewhere.
func fillBinaryTint(buf []byte, mask []uint8, tint color.RGBA) {
	a := uint32(tint.A)
	pr := uint8(uint32(tint.R) * a / 255)
	pg := uint8(uint32(tint.G) * a / 255)
	pb := uint8(uint32(tint.B) * a / 255)
	for i, v := range mask {
		base := i * 4
		if v == 0 {
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
			continue
		}
		buf[base+0], buf[base+1], buf[base+2], buf[base+3] = pr, pg, pb, tint.A
	}
}
