package optimizer

import (
	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// BestRandomState generates n random seed shapes (kind drawn from
// shapeTypes) and returns the one with lowest energy, ties broken by
// first-seen (spec.md §4.5).
func BestRandomState(b shape.Bounds, shapeTypes []shape.Tag, alpha, n int, target, current *raster.Bitmap, lastScore float64, rnd shape.RNG) State {
	var buffer []uint8
	var best State
	var bestEnergy float64

	for i := 0; i < n; i++ {
		tag := shapeTypes[rnd.Intn(len(shapeTypes))]
		st := State{Shape: shape.NewRandom(tag, b, rnd), Alpha: alpha}
		e, nb := Energy(b, st, target, current, buffer, lastScore)
		buffer = nb
		if i == 0 || e < bestEnergy {
			bestEnergy = e
			best = st
		}
	}
	best.Score = bestEnergy
	return best
}

// BestHillClimbState runs passes rounds of random-restart hill-climbing and
// returns the running best, ties broken by first-seen (spec.md §4.5).
func BestHillClimbState(b shape.Bounds, shapeTypes []shape.Tag, alpha, n, maxAge, passes int, target, current *raster.Bitmap, lastScore float64, rnd shape.RNG) State {
	var best State
	var bestEnergy float64

	for i := 0; i < passes; i++ {
		seed := BestRandomState(b, shapeTypes, alpha, n, target, current, lastScore, rnd)
		climbed := HillClimb(b, seed, maxAge, target, current, lastScore, rnd)
		if i == 0 || climbed.Score < bestEnergy {
			bestEnergy = climbed.Score
			best = climbed
		}
	}
	return best
}
