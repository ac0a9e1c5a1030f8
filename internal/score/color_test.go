package score

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/primitivefit/internal/raster"
)

func TestColorCheckerboardFullCoverage(t *testing.T) {
	target := raster.New(2, 2, raster.RGBA{})
	target.Set(0, 0, raster.RGBA{R: 0, G: 0, B: 0, A: 255})
	target.Set(1, 0, raster.RGBA{R: 255, G: 255, B: 255, A: 255})
	target.Set(0, 1, raster.RGBA{R: 255, G: 255, B: 255, A: 255})
	target.Set(1, 1, raster.RGBA{R: 0, G: 0, B: 0, A: 255})

	current := raster.New(2, 2, raster.RGBA{R: 128, G: 128, B: 128, A: 255})
	lines := []raster.Scanline{{Y: 0, X1: 0, X2: 1}, {Y: 1, X1: 0, X2: 1}}

	c := Color(target, current, lines, 255)
	if c.R < 127 || c.R > 128 {
		t.Fatalf("expected channel average ~127/128, got %d", c.R)
	}
	if c.A != 255 {
		t.Fatalf("expected alpha 255, got %d", c.A)
	}
}

func TestColorZeroAlphaDegenerate(t *testing.T) {
	target := raster.New(2, 2, raster.RGBA{R: 10, G: 10, B: 10, A: 255})
	current := raster.New(2, 2, raster.RGBA{R: 20, G: 20, B: 20, A: 255})
	c := Color(target, current, []raster.Scanline{{Y: 0, X1: 0, X2: 1}}, 0)
	want := raster.RGBA{0, 0, 0, 0}
	if c != want {
		t.Fatalf("got %+v want %+v", c, want)
	}
}

func TestColorEmptyLines(t *testing.T) {
	target := raster.New(2, 2, raster.RGBA{R: 10, G: 10, B: 10, A: 255})
	current := raster.New(2, 2, raster.RGBA{R: 20, G: 20, B: 20, A: 255})
	c := Color(target, current, nil, 128)
	want := raster.RGBA{0, 0, 0, 128}
	if c != want {
		t.Fatalf("got %+v want %+v", c, want)
	}
}

// TestColorOptimality checks that the solved color does not increase
// squared error relative to nearby perturbed colors, on a random scene.
func TestColorOptimality(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	target := randomBitmap(rnd, 10, 10)
	current := randomBitmap(rnd, 10, 10)
	var lines []raster.Scanline
	for y := 0; y < 10; y++ {
		lines = append(lines, raster.Scanline{Y: y, X1: 0, X2: 9})
	}
	alpha := 180
	best := Color(target, current, lines, alpha)

	after := current.Clone()
	DrawLines(after, best, lines)
	bestErr := sumSquared(target, after, lines)

	for i := 0; i < 20; i++ {
		perturbed := raster.RGBA{
			R: clamp255(int(best.R) + rnd.Intn(21) - 10),
			G: clamp255(int(best.G) + rnd.Intn(21) - 10),
			B: clamp255(int(best.B) + rnd.Intn(21) - 10),
			A: uint8(alpha),
		}
		alt := current.Clone()
		DrawLines(alt, perturbed, lines)
		altErr := sumSquared(target, alt, lines)
		if altErr < bestErr-1e-6 {
			t.Fatalf("found better color %+v (%v) than solved %+v (%v)", perturbed, altErr, best, bestErr)
		}
	}
}

func sumSquared(target, current *raster.Bitmap, lines []raster.Scanline) float64 {
	w := target.Width()
	t, c := target.Pix(), current.Pix()
	var sum float64
	for _, l := range lines {
		rowOff := l.Y * w * 4
		for x := l.X1; x <= l.X2; x++ {
			i := rowOff + x*4
			for k := 0; k < 3; k++ {
				d := float64(t[i+k]) - float64(c[i+k])
				sum += d * d
			}
		}
	}
	return sum
}
