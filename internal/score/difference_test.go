package score

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/primitivefit/internal/raster"
)

const epsilon = 1e-6

func TestFullOneByOne(t *testing.T) {
	target := raster.New(1, 1, raster.RGBA{R: 0, G: 0, B: 0, A: 255})
	current := raster.New(1, 1, raster.RGBA{R: 255, G: 255, B: 255, A: 255})
	got := Full(target, current)
	want := math.Sqrt((255.0*255.0*3)/4) / 255
	if math.Abs(got-want) > epsilon {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestPartialRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	w, h := 16, 12
	target := randomBitmap(rnd, w, h)
	before := randomBitmap(rnd, w, h)
	after := before.Clone()

	var lines []raster.Scanline
	for y := 0; y < h; y++ {
		lines = append(lines, raster.Scanline{Y: y, X1: 2, X2: w - 3})
	}
	DrawLines(after, raster.RGBA{R: uint8(rnd.Intn(256)), G: uint8(rnd.Intn(256)), B: uint8(rnd.Intn(256)), A: uint8(rnd.Intn(256))}, lines)

	lastScore := Full(target, before)
	got := Partial(target, before, after, lastScore, lines)
	want := Full(target, after)
	if math.Abs(got-want) > epsilon {
		t.Fatalf("partial/full mismatch: got %v want %v", got, want)
	}
}

func TestPartialEmptyLinesIsNoop(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	target := randomBitmap(rnd, 8, 8)
	current := randomBitmap(rnd, 8, 8)
	last := Full(target, current)
	got := Partial(target, current, current, last, nil)
	if math.Abs(got-last) > epsilon {
		t.Fatalf("expected unchanged score, got %v want %v", got, last)
	}
}

func randomBitmap(rnd *rand.Rand, w, h int) *raster.Bitmap {
	b := raster.New(w, h, raster.RGBA{})
	pix := b.Pix()
	for i := range pix {
		pix[i] = uint8(rnd.Intn(256))
	}
	return b
}
