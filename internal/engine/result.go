package engine

import (
	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// StepResult records one accepted shape addition: its kind, solved color,
// and the full-image score immediately after it was drawn (spec.md §4.6).
type StepResult struct {
	Shape shape.Shape
	Color raster.RGBA
	Score float64
}
