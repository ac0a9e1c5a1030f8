package jobrunner

import (
	"log/slog"
	"math"
)

// ConvergenceConfig mirrors the teacher's fit.ConvergenceConfig: it governs
// early-stopping a run once additional steps stop meaningfully improving
// the score.
type ConvergenceConfig struct {
	Enabled   bool
	Patience  int
	Threshold float64
}

// DefaultConvergenceConfig matches the teacher's defaults.
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{Enabled: true, Patience: 3, Threshold: 0.001}
}

// ConvergenceTracker tracks score history across steps and reports when a
// run has stopped making significant progress, adapted from the teacher's
// fit.ConvergenceTracker with "cost" (to be minimized by more circles)
// renamed to "score" (to be minimized by more shapes) — the relative
// improvement math is identical.
type ConvergenceTracker struct {
	config          ConvergenceConfig
	history         []float64
	bestScore       float64
	lastSignificant float64
	staleCount      int
}

func NewConvergenceTracker(config ConvergenceConfig) *ConvergenceTracker {
	return &ConvergenceTracker{
		config:          config,
		bestScore:       math.Inf(1),
		lastSignificant: math.Inf(1),
	}
}

// Update records score and reports whether the run has converged.
func (c *ConvergenceTracker) Update(score float64) bool {
	if !c.config.Enabled {
		return false
	}
	c.history = append(c.history, score)

	if score < c.bestScore {
		c.bestScore = score
	}
	if len(c.history) == 1 {
		c.lastSignificant = score
		return false
	}

	relativeImprovement := (c.lastSignificant - score) / c.lastSignificant
	if relativeImprovement >= c.config.Threshold {
		c.lastSignificant = score
		c.staleCount = 0
		return false
	}

	c.staleCount++
	if c.staleCount >= c.config.Patience {
		slog.Info("convergence detected, stopping early", "stale_count", c.staleCount, "best_score", c.bestScore)
		return true
	}
	return false
}

func (c *ConvergenceTracker) BestScore() float64 { return c.bestScore }
func (c *ConvergenceTracker) StaleCount() int    { return c.staleCount }
