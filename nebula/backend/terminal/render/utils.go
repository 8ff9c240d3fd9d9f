package render

import "github.com/nebulaemu/nebula/nebula/display"

// PixelRGB splits a 0xRRGGBBAA framebuffer pixel into tcell-ready components.
func PixelRGB(pixel uint32) (r, g, b int32) {
	pr, pg, pb := display.Components(pixel)
	return int32(pr), int32(pg), int32(pb)
}

// GetHalfBlockChar returns the glyph for a cell showing two vertically
// stacked pixels. Identical pixels use a full block in the foreground color;
// otherwise the upper half block puts top in the foreground and bottom in
// the background.
func GetHalfBlockChar(top, bottom uint32) rune {
	if top == bottom {
		return '█'
	}
	return '▀'
}

// FitStep picks the smallest power-of-two pixel step at which a
// width x height picture fits in cols x rows cells, two pixel rows per cell.
// It returns 0 when even the coarsest step does not fit.
func FitStep(width, height, cols, rows int) int {
	for step := 1; step <= 8; step *= 2 {
		if width/step <= cols && height/(2*step) <= rows {
			return step
		}
	}
	return 0
}
