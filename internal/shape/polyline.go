package shape

import "github.com/cwbudde/primitivefit/internal/raster"

// polylinePoints is the default number of control points for a randomly
// constructed polyline. Mutation never changes this count (spec.md §4.4:
// "must not change the shape's type tag or number of parameters").
const polylinePoints = 4

// PolylineShape is an open chain of line segments: raw params
// x1,y1,x2,y2,... one pair per control point.
type PolylineShape struct {
	X, Y []int
}

// NewRandomPolyline jitters each successive control point by ±32 from the
// previous one, starting from a uniformly chosen primary point.
func NewRandomPolyline(b Bounds, rnd RNG) *PolylineShape {
	x := make([]int, polylinePoints)
	y := make([]int, polylinePoints)
	x[0] = rnd.Intn(b.W)
	y[0] = rnd.Intn(b.H)
	for i := 1; i < polylinePoints; i++ {
		x[i] = jitter(rnd, x[i-1], 32, 0, b.W-1)
		y[i] = jitter(rnd, y[i-1], 32, 0, b.H-1)
	}
	return &PolylineShape{X: x, Y: y}
}

func (s *PolylineShape) Tag() Tag { return Polyline }

func (s *PolylineShape) Mutate(b Bounds, rnd RNG) {
	i := rnd.Intn(len(s.X))
	s.X[i] = jitter(rnd, s.X[i], 16, 0, b.W-1)
	s.Y[i] = jitter(rnd, s.Y[i], 16, 0, b.H-1)
}

// Rasterize approximates the polyline by its control polygon: piecewise
// Bresenham between successive control points (spec.md §4.4 and §9
// "Quadratic Bézier rasterization quirk" applies equally to polylines).
func (s *PolylineShape) Rasterize(b Bounds) []raster.Scanline {
	var lines []raster.Scanline
	for i := 0; i+1 < len(s.X); i++ {
		lines = bresenhamLine(lines, s.X[i], s.Y[i], s.X[i+1], s.Y[i+1])
	}
	return raster.Trim(lines, b.W, b.H)
}

func (s *PolylineShape) Clone() Shape {
	x := append([]int(nil), s.X...)
	y := append([]int(nil), s.Y...)
	return &PolylineShape{X: x, Y: y}
}

func (s *PolylineShape) Params() []int32 {
	out := make([]int32, 0, 2*len(s.X))
	for i := range s.X {
		out = append(out, int32(s.X[i]), int32(s.Y[i]))
	}
	return out
}

// SVG emits <polyline points="x1,y1 x2,y2 ..." SVG_STYLE_HOOK />. The
// teacher's reference implementation attempted to read a nonexistent
// m_points field here; spec.md §9 flags this as a latent bug and directs
// implementers to emit the coordinates the shape actually carries.
func (s *PolylineShape) SVG() string {
	points := ""
	for i := range s.X {
		if i > 0 {
			points += " "
		}
		points += svgf("%d,%d", s.X[i], s.Y[i])
	}
	return svgf(`<polyline points="%s" %s />`, points, SVGStyleHook)
}
