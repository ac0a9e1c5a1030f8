package score

import "github.com/cwbudde/primitivefit/internal/raster"

// DrawLines composites color into canvas over lines using straight-alpha
// src-over blending, per spec.md §4.3. Scanlines must already be trimmed to
// canvas bounds (raster.Trim) — out-of-range pixels are a precondition
// violation, not handled here.
func DrawLines(canvas *raster.Bitmap, color raster.RGBA, lines []raster.Scanline) {
	w := canvas.Width()
	pix := canvas.Pix()
	aAlpha := float64(color.A) / 255

	for _, l := range lines {
		rowOff := l.Y * w * 4
		for x := l.X1; x <= l.X2; x++ {
			i := rowOff + x*4
			pix[i+0] = blendChannel(pix[i+0], color.R, aAlpha)
			pix[i+1] = blendChannel(pix[i+1], color.G, aAlpha)
			pix[i+2] = blendChannel(pix[i+2], color.B, aAlpha)
			pix[i+3] = blendAlpha(pix[i+3], color.A)
		}
	}
}

func blendChannel(bg, fg uint8, a float64) uint8 {
	v := float64(bg)*(1-a) + float64(fg)*a
	return clamp255(round(v))
}

func blendAlpha(bg, fg uint8) uint8 {
	v := float64(bg) + float64(fg)*(1-float64(bg)/255)
	return clamp255(round(v))
}
