package optimizer

import (
	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// HillClimb runs local search from seed, accepting only mutations that
// strictly improve on the best energy seen so far, stopping after maxAge
// consecutive rejections (spec.md §4.5).
func HillClimb(b shape.Bounds, seed State, maxAge int, target, current *raster.Bitmap, lastScore float64, rnd shape.RNG) State {
	var buffer []uint8

	state := seed
	bestEnergy, buffer := Energy(b, state, target, current, buffer, lastScore)
	best := state.Clone()
	best.Score = bestEnergy

	age := 0
	for age < maxAge {
		undo := state.Clone()
		state.Shape.Mutate(b, rnd)

		e, nb := Energy(b, state, target, current, buffer, lastScore)
		buffer = nb
		if e >= bestEnergy {
			state = undo
			age++
			continue
		}
		best = state.Clone()
		best.Score = e
		bestEnergy = e
		age = 0
	}
	return State{Shape: best.Shape, Score: bestEnergy, Alpha: state.Alpha}
}
