package shape

import "github.com/cwbudde/primitivefit/internal/raster"

// TriangleShape is a filled triangle: raw params x1,y1,x2,y2,x3,y3.
type TriangleShape struct {
	X1, Y1, X2, Y2, X3, Y3 int
}

// NewRandomTriangle jitters two further vertices by ±32 from a uniformly
// chosen primary point (spec.md §4.4).
func NewRandomTriangle(b Bounds, rnd RNG) *TriangleShape {
	x1 := rnd.Intn(b.W)
	y1 := rnd.Intn(b.H)
	return &TriangleShape{
		X1: x1, Y1: y1,
		X2: jitter(rnd, x1, 32, 0, b.W-1), Y2: jitter(rnd, y1, 32, 0, b.H-1),
		X3: jitter(rnd, x1, 32, 0, b.W-1), Y3: jitter(rnd, y1, 32, 0, b.H-1),
	}
}

func (s *TriangleShape) Tag() Tag { return Triangle }

func (s *TriangleShape) Mutate(b Bounds, rnd RNG) {
	switch rnd.Intn(3) {
	case 0:
		s.X1 = jitter(rnd, s.X1, 32, 0, b.W-1)
		s.Y1 = jitter(rnd, s.Y1, 32, 0, b.H-1)
	case 1:
		s.X2 = jitter(rnd, s.X2, 32, 0, b.W-1)
		s.Y2 = jitter(rnd, s.Y2, 32, 0, b.H-1)
	case 2:
		s.X3 = jitter(rnd, s.X3, 32, 0, b.W-1)
		s.Y3 = jitter(rnd, s.Y3, 32, 0, b.H-1)
	}
}

func (s *TriangleShape) Rasterize(b Bounds) []raster.Scanline {
	verts := []point{
		{float64(s.X1), float64(s.Y1)},
		{float64(s.X2), float64(s.Y2)},
		{float64(s.X3), float64(s.Y3)},
	}
	return raster.Trim(scanPolygon(verts), b.W, b.H)
}

func (s *TriangleShape) Clone() Shape {
	cp := *s
	return &cp
}

func (s *TriangleShape) Params() []int32 {
	return []int32{int32(s.X1), int32(s.Y1), int32(s.X2), int32(s.Y2), int32(s.X3), int32(s.Y3)}
}

func (s *TriangleShape) SVG() string {
	return svgf(`<polygon points="%d,%d %d,%d %d,%d" %s />`,
		s.X1, s.Y1, s.X2, s.Y2, s.X3, s.Y3, SVGStyleHook)
}
