package optimizer

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/score"
	"github.com/cwbudde/primitivefit/internal/shape"
)

type fakeRNG struct{ r *rand.Rand }

func newFakeRNG(seed int64) *fakeRNG { return &fakeRNG{r: rand.New(rand.NewSource(seed))} }

func (f *fakeRNG) Intn(n int) int { return f.r.Intn(n) }
func (f *fakeRNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + f.r.Intn(hi-lo+1)
}
func (f *fakeRNG) Float64() float64 { return f.r.Float64() }

var testBounds = shape.Bounds{W: 32, H: 32}

func blackTarget() *raster.Bitmap {
	return raster.New(testBounds.W, testBounds.H, raster.RGBA{A: 255})
}

func whiteCanvas() *raster.Bitmap {
	return raster.New(testBounds.W, testBounds.H, raster.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func TestEnergyLowerThanLastScoreForImprovingShape(t *testing.T) {
	target := blackTarget()
	current := whiteCanvas()
	lastScore := score.Full(target, current)

	st := State{Shape: &shape.RectangleShape{X1: 0, Y1: 0, X2: 31, Y2: 31}, Alpha: 255}
	e, _ := Energy(testBounds, st, target, current, nil, lastScore)
	if e >= lastScore {
		t.Fatalf("expected covering black rectangle to improve score: last=%f got=%f", lastScore, e)
	}
}

func TestEnergyDoesNotMutateCanvas(t *testing.T) {
	target := blackTarget()
	current := whiteCanvas()
	before := current.Clone()
	lastScore := score.Full(target, current)

	st := State{Shape: &shape.RectangleShape{X1: 0, Y1: 0, X2: 10, Y2: 10}, Alpha: 128}
	_, _ = Energy(testBounds, st, target, current, nil, lastScore)

	for y := 0; y < testBounds.H; y++ {
		for x := 0; x < testBounds.W; x++ {
			if current.At(x, y) != before.At(x, y) {
				t.Fatalf("Energy mutated canvas at (%d,%d)", x, y)
			}
		}
	}
}

func TestHillClimbNeverWorsensBestScore(t *testing.T) {
	target := blackTarget()
	current := whiteCanvas()
	lastScore := score.Full(target, current)
	rnd := newFakeRNG(7)

	seed := State{Shape: shape.NewRandom(shape.Rectangle, testBounds, rnd), Alpha: 255}
	seedEnergy, _ := Energy(testBounds, seed, target, current, nil, lastScore)
	seed.Score = seedEnergy

	result := HillClimb(testBounds, seed, 50, target, current, lastScore, rnd)
	if result.Score > seed.Score {
		t.Fatalf("hill climb worsened score: seed=%f result=%f", seed.Score, result.Score)
	}
	if result.Shape.Tag() != shape.Rectangle {
		t.Fatalf("hill climb changed shape tag")
	}
}

func TestBestRandomStateScoreMatchesEnergy(t *testing.T) {
	target := blackTarget()
	current := whiteCanvas()
	lastScore := score.Full(target, current)
	rnd := newFakeRNG(11)

	best := BestRandomState(testBounds, []shape.Tag{shape.Rectangle}, 255, 8, target, current, lastScore, rnd)
	if best.Shape == nil {
		t.Fatalf("expected a shape")
	}
	e, _ := Energy(testBounds, best, target, current, nil, lastScore)
	if best.Score != e {
		t.Fatalf("reported score %f does not match recomputed energy %f", best.Score, e)
	}
}

func TestBestHillClimbStateImprovesOnBlankCanvas(t *testing.T) {
	target := blackTarget()
	current := whiteCanvas()
	lastScore := score.Full(target, current)
	rnd := newFakeRNG(13)

	result := BestHillClimbState(testBounds, shape.AllTags, 255, 6, 20, 3, target, current, lastScore, rnd)
	if result.Score >= lastScore {
		t.Fatalf("expected improvement over blank canvas: last=%f got=%f", lastScore, result.Score)
	}
}

func TestHillClimbStrategyMatchesHillClimb(t *testing.T) {
	target := blackTarget()
	current := whiteCanvas()
	lastScore := score.Full(target, current)
	rnd := newFakeRNG(17)

	seed := State{Shape: shape.NewRandom(shape.Circle, testBounds, rnd), Alpha: 200}
	e, _ := Energy(testBounds, seed, target, current, nil, lastScore)
	seed.Score = e

	strat := HillClimbStrategy{MaxAge: 30}
	rnd2 := newFakeRNG(17)
	seed2 := State{Shape: shape.NewRandom(shape.Circle, testBounds, rnd2), Alpha: 200}
	e2, _ := Energy(testBounds, seed2, target, current, nil, lastScore)
	seed2.Score = e2

	want := HillClimb(testBounds, seed, 30, target, current, lastScore, rnd)
	got := strat.Search(testBounds, seed2, target, current, lastScore, rnd2)
	if got.Score != want.Score {
		t.Fatalf("HillClimbStrategy diverged from HillClimb: want=%f got=%f", want.Score, got.Score)
	}
}
