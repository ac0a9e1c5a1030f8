package shape

import "github.com/cwbudde/primitivefit/internal/raster"

// bresenhamLine rasterizes the integer line between (x0,y0) and (x1,y1) as
// one scanline of length 1 per pixel (spec.md §4.4), appending to dst.
func bresenhamLine(dst []raster.Scanline, x0, y0, x1, y1 int) []raster.Scanline {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)
	err := dx + dy

	x, y := x0, y0
	for {
		dst = append(dst, raster.Scanline{Y: y, X1: x, X2: x})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return dst
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
