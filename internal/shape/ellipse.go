package shape

import (
	"math"

	"github.com/cwbudde/primitivefit/internal/raster"
)

// EllipseShape is a filled axis-aligned ellipse: raw params cx, cy, rx, ry.
type EllipseShape struct {
	CX, CY, RX, RY int
}

// NewRandomEllipse draws both radii uniformly from [1, 32] (spec.md §4.4).
func NewRandomEllipse(b Bounds, rnd RNG) *EllipseShape {
	return &EllipseShape{
		CX: rnd.Intn(b.W),
		CY: rnd.Intn(b.H),
		RX: rnd.Range(1, 32),
		RY: rnd.Range(1, 32),
	}
}

func (s *EllipseShape) Tag() Tag { return Ellipse }

func (s *EllipseShape) Mutate(b Bounds, rnd RNG) {
	switch rnd.Intn(4) {
	case 0:
		s.CX = jitter(rnd, s.CX, 16, 0, b.W-1)
	case 1:
		s.CY = jitter(rnd, s.CY, 16, 0, b.H-1)
	case 2:
		s.RX = clampInt(s.RX+intRange(rnd, -16, 16), 1, maxDim(b))
	case 3:
		s.RY = clampInt(s.RY+intRange(rnd, -16, 16), 1, maxDim(b))
	}
}

func (s *EllipseShape) Rasterize(b Bounds) []raster.Scanline {
	rx, ry := float64(s.RX), float64(s.RY)
	var lines []raster.Scanline
	y0 := int(math.Floor(float64(s.CY) - ry))
	y1 := int(math.Ceil(float64(s.CY) + ry))
	for y := y0; y <= y1; y++ {
		dy := float64(y) - float64(s.CY)
		ext := midpointExtent(rx, ry, dy)
		if ext <= 0 {
			continue
		}
		x1 := int(math.Round(float64(s.CX) - ext))
		x2 := int(math.Round(float64(s.CX) + ext))
		lines = append(lines, raster.Scanline{Y: y, X1: x1, X2: x2})
	}
	return raster.Trim(lines, b.W, b.H)
}

func (s *EllipseShape) Clone() Shape {
	cp := *s
	return &cp
}

func (s *EllipseShape) Params() []int32 {
	return []int32{int32(s.CX), int32(s.CY), int32(s.RX), int32(s.RY)}
}

func (s *EllipseShape) SVG() string {
	return svgf(`<ellipse cx="%d" cy="%d" rx="%d" ry="%d" %s />`, s.CX, s.CY, s.RX, s.RY, SVGStyleHook)
}
