// Package optimizer implements the hill-climb and random-restart search
// that finds a good (shape, color) pair given the current canvas
// (spec.md §4.5). The Strategy interface is kept from the teacher's
// internal/opt.Optimizer — there it abstracted over Mayfly-algorithm
// variants driving a flat []float64 parameter vector; here it abstracts
// over strategies that search the shape+alpha space directly, with
// HillClimb (spec.md's mandated algorithm) as the default and Mayfly
// (§SPEC_FULL.md 3) as an alternate strategy that searches one seed
// shape's parameter vector jointly.
package optimizer

import (
	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/score"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// State is (shape, score, alpha): the optimizer's candidate record
// (spec.md §3). Score is the hypothetical full-image score if shape were
// applied at its solved color.
type State struct {
	Shape shape.Shape
	Score float64
	Alpha int
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	return State{Shape: s.Shape.Clone(), Score: s.Score, Alpha: s.Alpha}
}

// Energy computes the hypothetical full-image score for state against
// target/current, per spec.md §4.5:
//
//  1. rasterize shape -> lines
//  2. solve optimal color -> color
//  3. copy the pixels of current under lines into buffer (partial snapshot)
//  4. blit color into current over lines
//  5. compute partial = differencePartial(target, buffer, current, lastScore, lines)
//  6. undo the blit by copying buffer back into current under lines
//  7. return partial
//
// buffer is caller-owned scratch reused across Energy calls; passing the
// same backing array back in avoids a per-candidate allocation in the hot
// hill-climb loop.
func Energy(b shape.Bounds, st State, target, current *raster.Bitmap, buffer []uint8, lastScore float64) (float64, []uint8) {
	lines := st.Shape.Rasterize(b)
	color := score.Color(target, current, lines, st.Alpha)

	buffer = snapshotInto(current, lines, buffer)
	score.DrawLines(current, color, lines)
	partial := score.PartialFromSnapshot(target, buffer, current, lastScore, lines)
	score.RestoreLines(current, lines, buffer)
	return partial, buffer
}

// snapshotInto behaves like score.SnapshotLines but reuses dst's backing
// array when it has enough capacity.
func snapshotInto(canvas *raster.Bitmap, lines []raster.Scanline, dst []uint8) []uint8 {
	need := 0
	for _, l := range lines {
		need += (l.X2 + 1 - l.X1) * 4
	}
	if cap(dst) < need {
		dst = make([]uint8, 0, need)
	}
	dst = dst[:0]
	w := canvas.Width()
	pix := canvas.Pix()
	for _, l := range lines {
		rowOff := l.Y * w * 4
		start := rowOff + l.X1*4
		end := rowOff + (l.X2+1)*4
		dst = append(dst, pix[start:end]...)
	}
	return dst
}
