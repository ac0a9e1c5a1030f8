package optimizer

import (
	"math/rand"

	"github.com/cwbudde/mayfly"

	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// MayflyStrategy is the alternate strategy referenced in SPEC_FULL.md §3: it
// searches a seed shape's entire parameter vector jointly with the Mayfly
// swarm metaheuristic (github.com/cwbudde/mayfly, adapted from the
// teacher's internal/opt.MayflyAdapter) instead of hill-climbing one
// parameter at a time. It is not the default — spec.md §4.5 mandates
// single-parameter hill-climbing — and it is not wired into engine.Model
// or exposed by any CLI flag; it is reachable only by calling Search
// directly.
type MayflyStrategy struct {
	MaxIters int
	PopSize  int
	Seed     int64
}

func (m MayflyStrategy) Search(b shape.Bounds, seed State, target, current *raster.Bitmap, lastScore float64, rnd shape.RNG) State {
	params := seed.Shape.Params()
	dim := len(params)

	bound := float64(b.W)
	if b.H > b.W {
		bound = float64(b.H)
	}

	var buffer []uint8
	eval := func(x []float64) float64 {
		candidate := make([]int32, dim)
		for i, v := range x {
			candidate[i] = int32(v)
		}
		st := State{Shape: shape.FromParams(seed.Shape.Tag(), candidate), Alpha: seed.Alpha}
		e, nb := Energy(b, st, target, current, buffer, lastScore)
		buffer = nb
		return e
	}

	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := range lower {
		lower[i] = 0
		upper[i] = bound
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = eval
	config.ProblemSize = dim
	config.MaxIterations = m.MaxIters
	config.NPop = m.PopSize
	config.LowerBound = lower[0]
	config.UpperBound = upper[0]
	config.Rand = rand.New(rand.NewSource(m.Seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return seed
	}

	candidate := make([]int32, dim)
	for i, v := range result.GlobalBest.Position {
		candidate[i] = int32(v)
	}
	best := State{Shape: shape.FromParams(seed.Shape.Tag(), candidate), Alpha: seed.Alpha, Score: result.GlobalBest.Cost}
	return best
}
