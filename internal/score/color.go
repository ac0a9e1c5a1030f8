package score

import (
	"github.com/cwbudde/primitivefit/internal/raster"
)

// Color solves for the channel-wise color that minimizes post-blend error
// over the pixels covered by lines, given a fixed alpha, per spec.md §4.2.
func Color(target, current *raster.Bitmap, lines []raster.Scanline, alpha int) raster.RGBA {
	if alpha == 0 {
		return raster.RGBA{}
	}

	w := target.Width()
	t, c := target.Pix(), current.Pix()
	a := float64(alpha) / 255

	var count int
	var rsum, gsum, bsum float64
	for _, l := range lines {
		rowOff := l.Y * w * 4
		for x := l.X1; x <= l.X2; x++ {
			i := rowOff + x*4
			count++
			tr, tg, tb := float64(t[i]), float64(t[i+1]), float64(t[i+2])
			cr, cg, cb := float64(c[i]), float64(c[i+1]), float64(c[i+2])
			rsum += (tr-cr)/a + cr
			gsum += (tg-cg)/a + cg
			bsum += (tb-cb)/a + cb
		}
	}
	if count == 0 {
		return raster.RGBA{A: uint8(alpha)}
	}
	r := clamp255(round(rsum / float64(count)))
	g := clamp255(round(gsum / float64(count)))
	b := clamp255(round(bsum / float64(count)))
	return raster.RGBA{R: r, G: g, B: b, A: uint8(alpha)}
}

func round(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

func clamp255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
