package render

import "image/color"

func putRGBA(buf []byte, i int, c color.RGBA) {
	base := i * 4
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}

// fillBinaryRGBA converts mask data (0 or non-zero) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, mask []uint8, on, off color.Color) {
	onRGBA := color.RGBAModel.Convert(on).(color.RGBA)
	offRGBA := color.RGBAModel.Convert(off).(color.RGBA)
	for i, c := range mask {
		if c != 0 {
			putRGBA(buf, i, onRGBA)
			continue
		}
		putRGBA(buf, i, offRGBA)
	}
}

// fillPaletteRGBA converts mask values into RGBA pixels using a palette.
// Values past the end of the palette use its last entry. An empty palette
// clears the buffer to transparent black.
func fillPaletteRGBA(buf []byte, mask []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(mask)*4])
		return
	}
	last := len(palette) - 1
	for i, c := range mask {
		putRGBA(buf, i, palette[min(int(c), last)])
	}
}

// DepthPalette returns levels+1 colors fading from off (index 0) to on
// (index levels).
func DepthPalette(levels int, on, off color.RGBA) []color.RGBA {
	if levels < 1 {
		levels = 1
	}
	out := make([]color.RGBA, levels+1)
	lerp := func(a, b uint8, t float64) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	for i := range out {
		t := float64(i) / float64(levels)
		if i > 0 {
			// Keep a single live cell clearly visible against the background.
			t = 0.35 + 0.65*t
		}
		out[i] = color.RGBA{
			R: lerp(off.R, on.R, t),
			G: lerp(off.G, on.G, t),
			B: lerp(off.B, on.B, t),
			A: lerp(off.A, on.A, t),
		}
	}
	return out
}
