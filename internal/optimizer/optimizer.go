package optimizer

import (
	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// Strategy is kept from the teacher's internal/opt.Optimizer interface
// (there: Run(eval, lower, upper, dim) over a flat []float64 vector). Here
// it is specialized to the shape+alpha search space: a Strategy proposes a
// single State given the current canvas and a seed to start from.
type Strategy interface {
	Search(b shape.Bounds, seed State, target, current *raster.Bitmap, lastScore float64, rnd shape.RNG) State
}

// HillClimbStrategy is the spec-mandated default: local search that accepts
// only strictly improving single-parameter mutations (spec.md §4.5).
type HillClimbStrategy struct {
	MaxAge int
}

func (h HillClimbStrategy) Search(b shape.Bounds, seed State, target, current *raster.Bitmap, lastScore float64, rnd shape.RNG) State {
	return HillClimb(b, seed, h.MaxAge, target, current, lastScore, rnd)
}
