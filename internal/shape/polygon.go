package shape

import (
	"math"
	"sort"

	"github.com/cwbudde/primitivefit/internal/raster"
)

// point is a float64 2D point used by polygon scan conversion.
type point struct{ X, Y float64 }

// scanPolygon produces one Scanline per integer row the polygon's boundary
// intersects, spanning min-x to max-x of the polygon's intersection with
// y+0.5, per spec.md §4.4 ("standard polygon scan conversion using edge
// interpolation").
func scanPolygon(verts []point) []raster.Scanline {
	if len(verts) < 3 {
		return nil
	}
	minY, maxY := verts[0].Y, verts[0].Y
	for _, v := range verts[1:] {
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))

	var lines []raster.Scanline
	n := len(verts)
	for y := y0; y <= y1; y++ {
		scanY := float64(y) + 0.5
		var xs []float64
		for i := 0; i < n; i++ {
			a := verts[i]
			b := verts[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			if (scanY >= a.Y && scanY < b.Y) || (scanY >= b.Y && scanY < a.Y) {
				t := (scanY - a.Y) / (b.Y - a.Y)
				xs = append(xs, a.X+t*(b.X-a.X))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		minX := xs[0]
		maxX := xs[len(xs)-1]
		lines = append(lines, raster.Scanline{
			Y:  y,
			X1: int(math.Round(minX)),
			X2: int(math.Round(maxX)),
		})
	}
	return lines
}
