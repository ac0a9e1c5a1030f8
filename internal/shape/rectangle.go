package shape

import "github.com/cwbudde/primitivefit/internal/raster"

// RectangleShape is an axis-aligned rectangle: raw params x1, y1, x2, y2.
type RectangleShape struct {
	X1, Y1, X2, Y2 int
}

// NewRandomRectangle places a rectangle by jittering a second corner within
// ±16 of a uniformly chosen primary point (spec.md §4.4).
func NewRandomRectangle(b Bounds, rnd RNG) *RectangleShape {
	x1 := rnd.Intn(b.W)
	y1 := rnd.Intn(b.H)
	x2 := jitter(rnd, x1, 16, 0, b.W-1)
	y2 := jitter(rnd, y1, 16, 0, b.H-1)
	return &RectangleShape{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (s *RectangleShape) Tag() Tag { return Rectangle }

func (s *RectangleShape) Mutate(b Bounds, rnd RNG) {
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

func (s *RectangleShape) Rasterize(b Bounds) []raster.Scanline {
	x1, x2 := s.X1, s.X2
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	y1, y2 := s.Y1, s.Y2
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	lines := make([]raster.Scanline, 0, y2-y1+1)
	for y := y1; y <= y2; y++ {
		lines = append(lines, raster.Scanline{Y: y, X1: x1, X2: x2})
	}
	return raster.Trim(lines, b.W, b.H)
}

func (s *RectangleShape) Clone() Shape {
	cp := *s
	return &cp
}

func (s *RectangleShape) Params() []int32 {
	return []int32{int32(s.X1), int32(s.Y1), int32(s.X2), int32(s.Y2)}
}

func (s *RectangleShape) SVG() string {
	x1, x2 := s.X1, s.X2
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	y1, y2 := s.Y1, s.Y2
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return svgf(`<rect x="%d" y="%d" width="%d" height="%d" %s />`,
		x1, y1, x2-x1, y2-y1, SVGStyleHook)
}
