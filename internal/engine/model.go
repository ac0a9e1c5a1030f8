// Package engine orchestrates one greedy step of the approximation loop:
// fan out parallel random-restart hill-climbs over the current canvas,
// pick the best candidate, and commit it (spec.md §4.6). Grounded on the
// fogleman-style Model.Step/BestHillClimbState/Add found in
// other_examples/98941477_MushR00m-primitive, reworked onto this module's
// internal/raster, internal/score, internal/shape, and internal/optimizer
// packages and onto explicit per-worker RNG splitting instead of the
// reference's ambient math/rand.
package engine

import (
	"runtime"
	"sync"

	"github.com/cwbudde/primitivefit/internal/optimizer"
	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/rng"
	"github.com/cwbudde/primitivefit/internal/score"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// Config tunes one Model's search. Zero values are not valid; use
// DefaultConfig as a base.
type Config struct {
	ShapeTypes []shape.Tag
	Alpha      int
	N          int // random seeds per pass
	MaxAge     int // hill-climb patience
	Passes     int // restarts per worker per step
	Workers    int // 0 means runtime.GOMAXPROCS(0)
	Seed       uint64
}

// DefaultConfig mirrors the reference implementation's BestHillClimbState
// call (n=100, age=100, passes=10 in the fogleman-style Step), with alpha
// fixed at 128 as a Model construction constant (SPEC_FULL.md §6 Open
// Questions).
func DefaultConfig() Config {
	return Config{
		ShapeTypes: shape.AllTags,
		Alpha:      128,
		N:          100,
		MaxAge:     100,
		Passes:     10,
		Workers:    0,
		Seed:       1,
	}
}

// Model is the opaque handle spec.md §9 calls for: its canvas, target, and
// score live behind this type, and the public surface is construction,
// Step, drawShape (invoked internally by Step), Commit, Reset, and
// accessors.
type Model struct {
	cfg        Config
	target     *raster.Bitmap
	current    *raster.Bitmap
	background raster.RGBA
	lastScore  float64
	rng        *rng.Source
	steps      int
}

// NewModel constructs a Model with current initialized to a uniform fill
// of background (spec.md §3 "Model" lifecycle).
func NewModel(target *raster.Bitmap, background raster.RGBA, cfg Config) *Model {
	current := raster.New(target.Width(), target.Height(), background)
	return &Model{
		cfg:        cfg,
		target:     target,
		current:    current,
		background: background,
		lastScore:  score.Full(target, current),
		rng:        rng.New(cfg.Seed),
	}
}

// Target returns the read-only target bitmap.
func (m *Model) Target() *raster.Bitmap { return m.target }

// Current returns the live canvas. Callers must not mutate it directly;
// only drawShape (via Step) and Commit do.
func (m *Model) Current() *raster.Bitmap { return m.current }

// Score returns the last committed full-image score.
func (m *Model) Score() float64 { return m.lastScore }

// Steps returns the number of shapes committed so far.
func (m *Model) Steps() int { return m.steps }

// Reset restores the canvas to a uniform fill of background and recomputes
// the score, discarding all committed shapes (spec.md §9).
func (m *Model) Reset() {
	m.current = raster.New(m.target.Width(), m.target.Height(), m.background)
	m.lastScore = score.Full(m.target, m.current)
	m.steps = 0
}

func (m *Model) workerCount() int {
	if m.cfg.Workers > 0 {
		return m.cfg.Workers
	}
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

// Step performs one full iteration of spec.md §4.6: fan out T parallel
// bestHillClimbState searches against private clones of current, pick the
// minimum-score candidate with first-seen tie-break, then commit it via
// drawShape.
func (m *Model) Step() StepResult {
	b := shape.Bounds{W: m.target.Width(), H: m.target.Height()}
	workers := m.workerCount()

	states := make([]optimizer.State, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			buf := m.current.Clone()
			workerRNG := m.rng.Split(i)
			states[i] = optimizer.BestHillClimbState(
				b, m.cfg.ShapeTypes, m.cfg.Alpha, m.cfg.N, m.cfg.MaxAge, m.cfg.Passes,
				m.target, buf, m.lastScore, workerRNG,
			)
		}(i)
	}
	wg.Wait()

	best := states[0]
	for _, st := range states[1:] {
		if st.Score < best.Score {
			best = st
		}
	}

	return m.drawShape(best.Shape, m.cfg.Alpha)
}

// Commit redraws a shape with an already-known color, bypassing the search
// and color solve in Step. Used to replay a previously committed shape
// sequence (e.g. from a checkpoint) back onto a fresh Model, reproducing
// the canvas and score exactly rather than re-deriving them.
func (m *Model) Commit(s shape.Shape, color raster.RGBA) StepResult {
	lines := s.Rasterize(shape.Bounds{W: m.target.Width(), H: m.target.Height()})
	snap := score.SnapshotLines(m.current, lines)
	score.DrawLines(m.current, color, lines)
	m.lastScore = score.PartialFromSnapshot(m.target, snap, m.current, m.lastScore, lines)
	m.steps++
	return StepResult{Shape: s, Color: color, Score: m.lastScore}
}

// drawShape rasterizes shape, solves its optimal color against the real
// canvas, blits it in, and updates lastScore via the incremental scorer
// (spec.md §4.6 step 3). Apart from Commit, it is the only place that
// draws into the committed canvas.
func (m *Model) drawShape(s shape.Shape, alpha int) StepResult {
	lines := s.Rasterize(shape.Bounds{W: m.target.Width(), H: m.target.Height()})
	color := score.Color(m.target, m.current, lines, alpha)

	snap := score.SnapshotLines(m.current, lines)
	score.DrawLines(m.current, color, lines)
	m.lastScore = score.PartialFromSnapshot(m.target, snap, m.current, m.lastScore, lines)
	m.steps++

	return StepResult{Shape: s, Color: color, Score: m.lastScore}
}
