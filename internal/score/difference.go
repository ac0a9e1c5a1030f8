// Package score implements the pixel-difference scoring model, the
// optimal-color solver, and the scanline blitter (spec.md §4.1-§4.3).
//
// The full/partial split mirrors the teacher's SSD kernel design in
// internal/fit/ssd.go: a widened accumulation path is selected at init()
// time based on CPU feature detection (see simd.go), with a portable
// scalar path always available. Unlike the teacher's SSD kernel, both
// paths here are pure Go — spec.md's scoring formula has no SIMD
// intrinsic available in the pack that isn't backed by missing assembly
// (see DESIGN.md).
package score

import (
	"math"

	"github.com/cwbudde/primitivefit/internal/raster"
)

// Full computes the root-mean-square normalized per-channel error between
// target and current, per spec.md §4.1.
func Full(target, current *raster.Bitmap) float64 {
	if target.Width() != current.Width() || target.Height() != current.Height() {
		panic(&raster.DimensionError{Op: "score.Full", W: current.Width(), H: current.Height()})
	}
	t, c := target.Pix(), current.Pix()
	n := float64(target.Width()) * float64(target.Height()) * 4
	sum := accumulateSquared(t, c)
	return math.Sqrt(sum/n) / 255
}

// accumulateSquared sums (t[i]-c[i])^2 over the whole buffer, dispatching
// to the widened loop when the host looks capable of benefiting from it.
func accumulateSquared(t, c []uint8) float64 {
	if useWideAccumulate {
		return accumulateSquaredWide(t, c)
	}
	return accumulateSquaredScalar(t, c)
}

func accumulateSquaredScalar(t, c []uint8) float64 {
	var sum float64
	for i := range t {
		d := float64(t[i]) - float64(c[i])
		sum += d * d
	}
	return sum
}

// accumulateSquaredWide is a 4-way unrolled variant of the scalar loop,
// selected on hosts with wide SIMD registers (see simd.go) on the
// assumption that the compiler/branch predictor benefits from fewer,
// fatter iterations even without explicit vector instructions.
func accumulateSquaredWide(t, c []uint8) float64 {
	n := len(t)
	lim := n - n%4
	var s0, s1, s2, s3 float64
	for i := 0; i < lim; i += 4 {
		d0 := float64(t[i]) - float64(c[i])
		d1 := float64(t[i+1]) - float64(c[i+1])
		d2 := float64(t[i+2]) - float64(c[i+2])
		d3 := float64(t[i+3]) - float64(c[i+3])
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	sum := s0 + s1 + s2 + s3
	for i := lim; i < n; i++ {
		d := float64(t[i]) - float64(c[i])
		sum += d * d
	}
	return sum
}

// Partial reconstructs the full score after only the pixels covered by
// lines have changed from before to after, per spec.md §4.1.
func Partial(target *raster.Bitmap, before, after *raster.Bitmap, lastScore float64, lines []raster.Scanline) float64 {
	w, h := target.Width(), target.Height()
	n := float64(w) * float64(h) * 4
	totalSq := (lastScore * 255) * (lastScore * 255) * n

	t, bf, af := target.Pix(), before.Pix(), after.Pix()
	for _, l := range lines {
		rowOff := l.Y * w * 4
		start := rowOff + l.X1*4
		end := rowOff + (l.X2+1)*4
		for i := start; i < end; i++ {
			td := float64(t[i])
			bd := float64(bf[i]) - td
			ad := float64(af[i]) - td
			totalSq -= bd * bd
			totalSq += ad * ad
		}
	}
	if totalSq < 0 {
		totalSq = 0
	}
	return math.Sqrt(totalSq/n) / 255
}

// SnapshotLines extracts the pixel bytes canvas has under lines, in the
// same row order Trim leaves them in. This is the "partial snapshot" the
// optimizer's hot path (spec.md §4.5 energy()) uses instead of copying the
// whole canvas per candidate evaluation.
func SnapshotLines(canvas *raster.Bitmap, lines []raster.Scanline) []uint8 {
	w := canvas.Width()
	pix := canvas.Pix()
	var buf []uint8
	for _, l := range lines {
		rowOff := l.Y * w * 4
		start := rowOff + l.X1*4
		end := rowOff + (l.X2+1)*4
		buf = append(buf, pix[start:end]...)
	}
	return buf
}

// RestoreLines writes snap back into canvas at the byte ranges lines cover,
// undoing a prior blit without touching the rest of the canvas.
func RestoreLines(canvas *raster.Bitmap, lines []raster.Scanline, snap []uint8) {
	w := canvas.Width()
	pix := canvas.Pix()
	offset := 0
	for _, l := range lines {
		rowOff := l.Y * w * 4
		start := rowOff + l.X1*4
		n := (l.X2 + 1 - l.X1) * 4
		copy(pix[start:start+n], snap[offset:offset+n])
		offset += n
	}
}

// PartialFromSnapshot is the snapshot-based twin of Partial: before-pixels
// come from a flat snapshot (as produced by SnapshotLines) instead of a
// second full Bitmap, so evaluating one candidate costs O(len(lines))
// instead of O(w*h).
func PartialFromSnapshot(target *raster.Bitmap, snapBefore []uint8, after *raster.Bitmap, lastScore float64, lines []raster.Scanline) float64 {
	w, h := target.Width(), target.Height()
	n := float64(w) * float64(h) * 4
	totalSq := (lastScore * 255) * (lastScore * 255) * n

	t, af := target.Pix(), after.Pix()
	offset := 0
	for _, l := range lines {
		rowOff := l.Y * w * 4
		start := rowOff + l.X1*4
		cnt := (l.X2 + 1 - l.X1) * 4
		for k := 0; k < cnt; k++ {
			i := start + k
			td := float64(t[i])
			bd := float64(snapBefore[offset+k]) - td
			ad := float64(af[i]) - td
			totalSq -= bd * bd
			totalSq += ad * ad
		}
		offset += cnt
	}
	if totalSq < 0 {
		totalSq = 0
	}
	return math.Sqrt(totalSq/n) / 255
}
