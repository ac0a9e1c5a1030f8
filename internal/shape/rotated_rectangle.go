package shape

import (
	"math"

	"github.com/cwbudde/primitivefit/internal/raster"
)

// RotatedRectangleShape is a rectangle rotated about its center: raw params
// x1, y1, x2, y2, angle_deg.
type RotatedRectangleShape struct {
	X1, Y1, X2, Y2 int
	AngleDeg       int
}

// NewRandomRotatedRectangle jitters a second corner by ±16 and picks a
// uniform rotation (spec.md §4.4).
func NewRandomRotatedRectangle(b Bounds, rnd RNG) *RotatedRectangleShape {
	x1 := rnd.Intn(b.W)
	y1 := rnd.Intn(b.H)
	return &RotatedRectangleShape{
		X1: x1, Y1: y1,
		X2: jitter(rnd, x1, 16, 0, b.W-1),
		Y2: jitter(rnd, y1, 16, 0, b.H-1),
		AngleDeg: rnd.Intn(360),
	}
}

func (s *RotatedRectangleShape) Tag() Tag { return RotatedRectangle }

func (s *RotatedRectangleShape) Mutate(b Bounds, rnd RNG) {
	switch rnd.Intn(5) {
	case 0:
		s.X1 = jitter(rnd, s.X1, 16, 0, b.W-1)
	case 1:
		s.Y1 = jitter(rnd, s.Y1, 16, 0, b.H-1)
	case 2:
		s.X2 = jitter(rnd, s.X2, 16, 0, b.W-1)
	case 3:
		s.Y2 = jitter(rnd, s.Y2, 16, 0, b.H-1)
	case 4:
		s.AngleDeg = clampAngle(s.AngleDeg + intRange(rnd, -4, 4))
	}
}

func (s *RotatedRectangleShape) corners() []point {
	cx := float64(s.X1+s.X2) / 2
	cy := float64(s.Y1+s.Y2) / 2
	hw := math.Abs(float64(s.X2-s.X1)) / 2
	hh := math.Abs(float64(s.Y2-s.Y1)) / 2
	theta := float64(s.AngleDeg) * math.Pi / 180
	sin, cos := math.Sin(theta), math.Cos(theta)

	local := []point{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	out := make([]point, 4)
	for i, p := range local {
		out[i] = point{
			X: cx + p.X*cos - p.Y*sin,
			Y: cy + p.X*sin + p.Y*cos,
		}
	}
	return out
}

func (s *RotatedRectangleShape) Rasterize(b Bounds) []raster.Scanline {
	return raster.Trim(scanPolygon(s.corners()), b.W, b.H)
}

func (s *RotatedRectangleShape) Clone() Shape {
	cp := *s
	return &cp
}

func (s *RotatedRectangleShape) Params() []int32 {
	return []int32{int32(s.X1), int32(s.Y1), int32(s.X2), int32(s.Y2), int32(s.AngleDeg)}
}

func (s *RotatedRectangleShape) SVG() string {
	corners := s.corners()
	return svgf(`<polygon points="%d,%d %d,%d %d,%d %d,%d" %s />`,
		int(math.Round(corners[0].X)), int(math.Round(corners[0].Y)),
		int(math.Round(corners[1].X)), int(math.Round(corners[1].Y)),
		int(math.Round(corners[2].X)), int(math.Round(corners[2].Y)),
		int(math.Round(corners[3].X)), int(math.Round(corners[3].Y)),
		SVGStyleHook)
}

// intRange returns a uniform value in [lo, hi], a small helper shared by
// shapes that mutate a rotation angle or a radius by a bounded window.
func intRange(rnd RNG, lo, hi int) int {
	return rnd.Range(lo, hi)
}
