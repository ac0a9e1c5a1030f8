package raster

import "testing"

func TestNewFillAndAt(t *testing.T) {
	b := New(4, 3, RGBA{10, 20, 30, 255})
	if b.Width() != 4 || b.Height() != 3 {
		t.Fatalf("unexpected dimensions: %dx%d", b.Width(), b.Height())
	}
	if len(b.Pix()) != 4*4*3 {
		t.Fatalf("unexpected pixel buffer length: %d", len(b.Pix()))
	}
	got := b.At(2, 1)
	want := RGBA{10, 20, 30, 255}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestCloneIndependence(t *testing.T) {
	a := New(2, 2, RGBA{1, 2, 3, 4})
	b := a.Clone()
	b.Set(0, 0, RGBA{9, 9, 9, 9})
	if a.At(0, 0) == b.At(0, 0) {
		t.Fatalf("clone mutation leaked into original")
	}
}

func TestZeroDimensionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on zero dimension")
		}
	}()
	New(0, 5, RGBA{})
}
