package shape

import (
	"math"

	"github.com/cwbudde/primitivefit/internal/raster"
)

// CircleShape is a filled circle: raw params cx, cy, r.
type CircleShape struct {
	CX, CY, R int
}

// NewRandomCircle places a circle with a radius drawn uniformly from
// [1, 32] (spec.md §4.4).
func NewRandomCircle(b Bounds, rnd RNG) *CircleShape {
	return &CircleShape{
		CX: rnd.Intn(b.W),
		CY: rnd.Intn(b.H),
		R:  rnd.Range(1, 32),
	}
}

func (s *CircleShape) Tag() Tag { return Circle }

func (s *CircleShape) Mutate(b Bounds, rnd RNG) {
	switch rnd.Intn(3) {
	case 0:
		s.CX = jitter(rnd, s.CX, 16, 0, b.W-1)
	case 1:
		s.CY = jitter(rnd, s.CY, 16, 0, b.H-1)
	case 2:
		s.R = clampInt(s.R+intRange(rnd, -16, 16), 1, maxDim(b))
	}
}

func maxDim(b Bounds) int {
	if b.W > b.H {
		return b.W
	}
	return b.H
}

// midpointExtent computes the x half-extent of a conic at vertical offset
// dy from its center, per spec.md §4.4 ("midpoint scan; for each y in
// vertical extent, compute x-extent by solving the conic").
func midpointExtent(rx, ry float64, dy float64) float64 {
	if ry == 0 {
		return 0
	}
	v := 1 - (dy*dy)/(ry*ry)
	if v < 0 {
		return 0
	}
	return rx * math.Sqrt(v)
}

func (s *CircleShape) Rasterize(b Bounds) []raster.Scanline {
	r := float64(s.R)
	var lines []raster.Scanline
	y0 := int(math.Floor(float64(s.CY) - r))
	y1 := int(math.Ceil(float64(s.CY) + r))
	for y := y0; y <= y1; y++ {
		dy := float64(y) - float64(s.CY)
		ext := midpointExtent(r, r, dy)
		if ext <= 0 {
			continue
		}
		x1 := int(math.Round(float64(s.CX) - ext))
		x2 := int(math.Round(float64(s.CX) + ext))
		lines = append(lines, raster.Scanline{Y: y, X1: x1, X2: x2})
	}
	return raster.Trim(lines, b.W, b.H)
}

func (s *CircleShape) Clone() Shape {
	cp := *s
	return &cp
}

func (s *CircleShape) Params() []int32 {
	return []int32{int32(s.CX), int32(s.CY), int32(s.R)}
}

func (s *CircleShape) SVG() string {
	return svgf(`<circle cx="%d" cy="%d" r="%d" %s />`, s.CX, s.CY, s.R, SVGStyleHook)
}
