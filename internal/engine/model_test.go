package engine

import (
	"math"
	"testing"

	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/score"
	"github.com/cwbudde/primitivefit/internal/shape"
)

func smallConfig(seed uint64) Config {
	return Config{
		ShapeTypes: []shape.Tag{shape.Rectangle, shape.Circle},
		Alpha:      128,
		N:          6,
		MaxAge:     15,
		Passes:     2,
		Workers:    2,
		Seed:       seed,
	}
}

func TestStepScoreConsistency(t *testing.T) {
	target := raster.New(16, 16, raster.RGBA{A: 255})
	m := NewModel(target, raster.RGBA{R: 255, G: 255, B: 255, A: 255}, smallConfig(1))

	m.Step()

	recomputed := score.Full(m.Target(), m.Current())
	if math.Abs(recomputed-m.Score()) > 1e-6 {
		t.Fatalf("lastScore drifted from differenceFull: lastScore=%f recomputed=%f", m.Score(), recomputed)
	}
}

func TestStepScoreMonotonicity(t *testing.T) {
	target := raster.New(16, 16, raster.RGBA{A: 255})
	m := NewModel(target, raster.RGBA{R: 255, G: 255, B: 255, A: 255}, smallConfig(2))

	for i := 0; i < 5; i++ {
		before := m.Score()
		result := m.Step()
		if result.Score > before {
			t.Fatalf("step %d worsened score: before=%f after=%f", i, before, result.Score)
		}
	}
}

func TestSolidBlackTargetTenRectangles(t *testing.T) {
	target := raster.New(32, 32, raster.RGBA{A: 255})
	cfg := smallConfig(3)
	cfg.ShapeTypes = []shape.Tag{shape.Rectangle}
	cfg.Alpha = 128
	m := NewModel(target, raster.RGBA{R: 255, G: 255, B: 255, A: 255}, cfg)

	prev := m.Score()
	for i := 0; i < 10; i++ {
		result := m.Step()
		if result.Score > prev {
			t.Fatalf("step %d increased score: %f -> %f", i, prev, result.Score)
		}
		prev = result.Score
	}

	closer := 0
	total := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := m.Current().At(x, y)
			dist := int(c.R) + int(c.G) + int(c.B)
			if dist < 255*3 {
				closer++
			}
			total++
		}
	}
	if float64(closer)/float64(total) < 0.9 {
		t.Fatalf("expected at least 90%% of pixels closer to black, got %f", float64(closer)/float64(total))
	}
}

func TestCheckerboardSingleCircleSolvedColor(t *testing.T) {
	target := raster.New(2, 2, raster.RGBA{})
	target.Set(0, 0, raster.RGBA{R: 0, G: 0, B: 0, A: 255})
	target.Set(1, 0, raster.RGBA{R: 255, G: 255, B: 255, A: 255})
	target.Set(0, 1, raster.RGBA{R: 255, G: 255, B: 255, A: 255})
	target.Set(1, 1, raster.RGBA{R: 0, G: 0, B: 0, A: 255})

	current := raster.New(2, 2, raster.RGBA{R: 127, G: 127, B: 127, A: 255})
	c := &shape.CircleShape{CX: 1, CY: 1, R: 4}
	lines := c.Rasterize(shape.Bounds{W: 2, H: 2})

	got := score.Color(target, current, lines, 255)
	if got.R < 127 || got.R > 128 {
		t.Fatalf("expected average channel value 127 or 128, got %d", got.R)
	}
}

func TestResetDiscardsShapes(t *testing.T) {
	target := raster.New(8, 8, raster.RGBA{A: 255})
	m := NewModel(target, raster.RGBA{R: 255, G: 255, B: 255, A: 255}, smallConfig(4))
	initial := m.Score()

	m.Step()
	if m.Steps() != 1 {
		t.Fatalf("expected 1 step committed, got %d", m.Steps())
	}

	m.Reset()
	if m.Steps() != 0 {
		t.Fatalf("expected Reset to clear step count")
	}
	if math.Abs(m.Score()-initial) > 1e-9 {
		t.Fatalf("expected Reset to restore initial score: want=%f got=%f", initial, m.Score())
	}
}

func TestParallelDeterminism(t *testing.T) {
	target := raster.New(16, 16, raster.RGBA{A: 255})

	run := func() StepResult {
		m := NewModel(target, raster.RGBA{R: 255, G: 255, B: 255, A: 255}, smallConfig(42))
		return m.Step()
	}

	a := run()
	b := run()
	if a.Score != b.Score {
		t.Fatalf("non-deterministic step: %f vs %f", a.Score, b.Score)
	}
	if a.Shape.Tag() != b.Shape.Tag() {
		t.Fatalf("non-deterministic shape tag: %v vs %v", a.Shape.Tag(), b.Shape.Tag())
	}
	if a.Color != b.Color {
		t.Fatalf("non-deterministic color: %+v vs %+v", a.Color, b.Color)
	}
}
