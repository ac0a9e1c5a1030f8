package shape

import "github.com/cwbudde/primitivefit/internal/raster"

// LineShape is a thin line segment: raw params x1, y1, x2, y2.
type LineShape struct {
	X1, Y1, X2, Y2 int
}

// NewRandomLine jitters the second endpoint by ±32 from a uniformly chosen
// primary point.
func NewRandomLine(b Bounds, rnd RNG) *LineShape {
	x1 := rnd.Intn(b.W)
	y1 := rnd.Intn(b.H)
	return &LineShape{
		X1: x1, Y1: y1,
		X2: jitter(rnd, x1, 32, 0, b.W-1),
		Y2: jitter(rnd, y1, 32, 0, b.H-1),
	}
}

func (s *LineShape) Tag() Tag { return Line }

func (s *LineShape) Mutate(b Bounds, rnd RNG) {
	switch rnd.Intn(4) {
	case 0:
		s.X1 = jitter(rnd, s.X1, 16, 0, b.W-1)
	case 1:
		s.Y1 = jitter(rnd, s.Y1, 16, 0, b.H-1)
	case 2:
		s.X2 = jitter(rnd, s.X2, 16, 0, b.W-1)
	case 3:
		s.Y2 = jitter(rnd, s.Y2, 16, 0, b.H-1)
	}
}

func (s *LineShape) Rasterize(b Bounds) []raster.Scanline {
	lines := bresenhamLine(nil, s.X1, s.Y1, s.X2, s.Y2)
	return raster.Trim(lines, b.W, b.H)
}

func (s *LineShape) Clone() Shape {
	cp := *s
	return &cp
}

func (s *LineShape) Params() []int32 {
	return []int32{int32(s.X1), int32(s.Y1), int32(s.X2), int32(s.Y2)}
}

func (s *LineShape) SVG() string {
	return svgf(`<line x1="%d" y1="%d" x2="%d" y2="%d" %s />`, s.X1, s.Y1, s.X2, s.Y2, SVGStyleHook)
}
