package shape

import (
	"math/rand"
	"reflect"
	"testing"
)

// fakeRNG adapts math/rand to the package-local RNG interface for
// deterministic, seedable tests.
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

var testBounds = Bounds{W: 64, H: 64}

func inDomain(v, lo, hi int) bool { return v >= lo && v <= hi }

func checkClampClosure(t *testing.T, tag Tag, s Shape) {
	t.Helper()
	b := testBounds
	switch v := s.(type) {
	case *RectangleShape:
		for _, x := range []int{v.X1, v.X2} {
			if !inDomain(x, 0, b.W-1) {
				t.Fatalf("%s: x out of domain: %d", tag, x)
			}
		}
		for _, y := range []int{v.Y1, v.Y2} {
			if !inDomain(y, 0, b.H-1) {
				t.Fatalf("%s: y out of domain: %d", tag, y)
			}
		}
	case *CircleShape:
		if !inDomain(v.R, 1, maxDim(b)) {
			t.Fatalf("%s: radius out of domain: %d", tag, v.R)
		}
	case *EllipseShape:
		if !inDomain(v.RX, 1, maxDim(b)) || !inDomain(v.RY, 1, maxDim(b)) {
			t.Fatalf("%s: radius out of domain", tag)
		}
	case *RotatedEllipseShape:
		if !inDomain(v.AngleDeg, 0, 359) {
			t.Fatalf("%s: angle out of domain: %d", tag, v.AngleDeg)
		}
	case *RotatedRectangleShape:
		if !inDomain(v.AngleDeg, 0, 359) {
			t.Fatalf("%s: angle out of domain: %d", tag, v.AngleDeg)
		}
	}
}

func TestClampClosure(t *testing.T) {
	for _, tag := range AllTags {
		rnd := newFakeRNG(1)
		s := NewRandom(tag, testBounds, rnd)
		checkClampClosure(t, tag, s)
		for i := 0; i < 50; i++ {
			s.Mutate(testBounds, rnd)
			checkClampClosure(t, tag, s)
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	for _, tag := range AllTags {
		rnd := newFakeRNG(2)
		s := NewRandom(tag, testBounds, rnd)
		clone := s.Clone()
		before := s.Params()
		clone.Mutate(testBounds, newFakeRNG(99))
		after := s.Params()
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("%s: mutating clone affected original: before=%v after=%v", tag, before, after)
		}
	}
}

func TestTagAndParamCountStableAcrossMutation(t *testing.T) {
	for _, tag := range AllTags {
		rnd := newFakeRNG(3)
		s := NewRandom(tag, testBounds, rnd)
		if s.Tag() != tag {
			t.Fatalf("expected tag %v, got %v", tag, s.Tag())
		}
		n := len(s.Params())
		for i := 0; i < 20; i++ {
			s.Mutate(testBounds, rnd)
			if s.Tag() != tag {
				t.Fatalf("%s: tag changed after mutation", tag)
			}
			if len(s.Params()) != n {
				t.Fatalf("%s: param count changed after mutation: %d -> %d", tag, n, len(s.Params()))
			}
		}
	}
}

func TestRasterizationDeterministic(t *testing.T) {
	for _, tag := range AllTags {
		rnd := newFakeRNG(4)
		s := NewRandom(tag, testBounds, rnd)
		a := s.Rasterize(testBounds)
		b := s.Clone().Rasterize(testBounds)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: rasterization not deterministic", tag)
		}
	}
}

func TestScanlineContainment(t *testing.T) {
	for _, tag := range AllTags {
		rnd := newFakeRNG(5)
		s := NewRandom(tag, testBounds, rnd)
		for i := 0; i < 10; i++ {
			s.Mutate(testBounds, rnd)
			for _, l := range s.Rasterize(testBounds) {
				if l.Y < 0 || l.Y >= testBounds.H {
					t.Fatalf("%s: y out of bounds: %d", tag, l.Y)
				}
				if l.X1 > l.X2 || l.X1 < 0 || l.X2 >= testBounds.W {
					t.Fatalf("%s: x range invalid: [%d,%d]", tag, l.X1, l.X2)
				}
			}
		}
	}
}

func TestDegenerateLineSinglePixel(t *testing.T) {
	l := &LineShape{X1: 5, Y1: 5, X2: 5, Y2: 5}
	lines := l.Rasterize(testBounds)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one scanline, got %d", len(lines))
	}
	if lines[0].Len() != 1 {
		t.Fatalf("expected scanline of length 1, got %d", lines[0].Len())
	}
}

func TestSVGContainsStyleHookExactlyOnce(t *testing.T) {
	for _, tag := range AllTags {
		rnd := newFakeRNG(6)
		s := NewRandom(tag, testBounds, rnd)
		svg := s.SVG()
		count := 0
		for i := 0; i+len(SVGStyleHook) <= len(svg); i++ {
			if svg[i:i+len(SVGStyleHook)] == SVGStyleHook {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("%s: expected SVG_STYLE_HOOK exactly once, got %d in %q", tag, count, svg)
		}
	}
}
