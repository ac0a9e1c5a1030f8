package shape

import (
	"math"

	"github.com/cwbudde/primitivefit/internal/raster"
)

// RotatedEllipseShape is an ellipse rotated about its center: raw params
// cx, cy, rx, ry, angle_deg.
type RotatedEllipseShape struct {
	CX, CY, RX, RY int
	AngleDeg       int
}

// NewRandomRotatedEllipse draws radii uniformly from [1, 32] and a uniform
// rotation (spec.md §4.4).
func NewRandomRotatedEllipse(b Bounds, rnd RNG) *RotatedEllipseShape {
	return &RotatedEllipseShape{
		CX: rnd.Intn(b.W),
		CY: rnd.Intn(b.H),
		RX: rnd.Range(1, 32),
		RY: rnd.Range(1, 32),
		AngleDeg: rnd.Intn(360),
	}
}

func (s *RotatedEllipseShape) Tag() Tag { return RotatedEllipse }

func (s *RotatedEllipseShape) Mutate(b Bounds, rnd RNG) {
	switch rnd.Intn(5) {
	case 0:
		s.CX = jitter(rnd, s.CX, 16, 0, b.W-1)
	case 1:
		s.CY = jitter(rnd, s.CY, 16, 0, b.H-1)
	case 2:
		s.RX = clampInt(s.RX+intRange(rnd, -16, 16), 1, maxDim(b))
	case 3:
		s.RY = clampInt(s.RY+intRange(rnd, -16, 16), 1, maxDim(b))
	case 4:
		s.AngleDeg = clampAngle(s.AngleDeg + intRange(rnd, -4, 4))
	}
}

// boundaryPoints samples the rotated ellipse boundary at fine angular
// resolution, per spec.md §4.4 ("sample the boundary at fine angular
// resolution, then per-row min/max x").
func (s *RotatedEllipseShape) boundaryPoints() []point {
	const samples = 180
	theta := float64(s.AngleDeg) * math.Pi / 180
	sin, cos := math.Sin(theta), math.Cos(theta)
	pts := make([]point, samples)
	for i := 0; i < samples; i++ {
		t := 2 * math.Pi * float64(i) / float64(samples)
		lx := float64(s.RX) * math.Cos(t)
		ly := float64(s.RY) * math.Sin(t)
		pts[i] = point{
			X: float64(s.CX) + lx*cos - ly*sin,
			Y: float64(s.CY) + lx*sin + ly*cos,
		}
	}
	return pts
}

func (s *RotatedEllipseShape) Rasterize(b Bounds) []raster.Scanline {
	pts := s.boundaryPoints()
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))

	rowMin := make(map[int]float64)
	rowMax := make(map[int]float64)
	for y := y0; y <= y1; y++ {
		rowMin[y] = math.Inf(1)
		rowMax[y] = math.Inf(-1)
	}
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b2 := pts[i], pts[(i+1)%n]
		lo, hi := a.Y, b2.Y
		loX, hiX := a.X, b2.X
		if hi < lo {
			lo, hi = hi, lo
			loX, hiX = hiX, loX
		}
		yStart := int(math.Ceil(lo))
		yEnd := int(math.Floor(hi))
		for y := yStart; y <= yEnd; y++ {
			var x float64
			if hi == lo {
				x = loX
			} else {
				t := (float64(y) - lo) / (hi - lo)
				x = loX + t*(hiX-loX)
			}
			if x < rowMin[y] {
				rowMin[y] = x
			}
			if x > rowMax[y] {
				rowMax[y] = x
			}
		}
	}

	var lines []raster.Scanline
	for y := y0; y <= y1; y++ {
		if rowMin[y] > rowMax[y] {
			continue
		}
		lines = append(lines, raster.Scanline{
			Y:  y,
			X1: int(math.Round(rowMin[y])),
			X2: int(math.Round(rowMax[y])),
		})
	}
	return raster.Trim(lines, b.W, b.H)
}

func (s *RotatedEllipseShape) Clone() Shape {
	cp := *s
	return &cp
}

func (s *RotatedEllipseShape) Params() []int32 {
	return []int32{int32(s.CX), int32(s.CY), int32(s.RX), int32(s.RY), int32(s.AngleDeg)}
}

func (s *RotatedEllipseShape) SVG() string {
	return svgf(`<ellipse cx="%d" cy="%d" rx="%d" ry="%d" transform="rotate(%d %d %d)" %s />`,
		s.CX, s.CY, s.RX, s.RY, s.AngleDeg, s.CX, s.CY, SVGStyleHook)
}
