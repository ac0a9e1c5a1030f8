package score

import (
	"testing"

	"github.com/cwbudde/primitivefit/internal/raster"
)

func TestDrawLinesFullAlphaOverwrites(t *testing.T) {
	canvas := raster.New(2, 2, raster.RGBA{R: 0, G: 0, B: 0, A: 0})
	lines := []raster.Scanline{{Y: 0, X1: 0, X2: 1}}
	DrawLines(canvas, raster.RGBA{R: 200, G: 100, B: 50, A: 255}, lines)

	got := canvas.At(0, 0)
	want := raster.RGBA{R: 200, G: 100, B: 50, A: 255}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	// untouched row unaffected
	if canvas.At(0, 1) != (raster.RGBA{}) {
		t.Fatalf("row outside scanlines was modified")
	}
}

func TestDrawLinesPartialAlphaBlends(t *testing.T) {
	canvas := raster.New(1, 1, raster.RGBA{R: 0, G: 0, B: 0, A: 0})
	DrawLines(canvas, raster.RGBA{R: 255, G: 255, B: 255, A: 128}, []raster.Scanline{{Y: 0, X1: 0, X2: 0}})
	got := canvas.At(0, 0)
	if got.R < 125 || got.R > 130 {
		t.Fatalf("unexpected blended channel: %d", got.R)
	}
	if got.A < 125 || got.A > 130 {
		t.Fatalf("unexpected blended alpha: %d", got.A)
	}
}
