package raster

import "testing"

func TestTrimDiscardsOutOfRange(t *testing.T) {
	lines := []Scanline{
		{Y: -1, X1: 0, X2: 5},
		{Y: 10, X1: 0, X2: 5},
		{Y: 3, X1: 5, X2: 2}, // reversed, should be swapped
		{Y: 3, X1: -5, X2: 100},
	}
	out := Trim(lines, 10, 10)
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving lines, got %d: %v", len(out), out)
	}
	for _, l := range out {
		if l.Y < 0 || l.Y >= 10 || l.X1 < 0 || l.X2 >= 10 || l.X1 > l.X2 {
			t.Fatalf("line violates containment: %+v", l)
		}
	}
}

func TestTrimEmptyOutOfBounds(t *testing.T) {
	out := Trim([]Scanline{{Y: 0, X1: 20, X2: 30}}, 10, 10)
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %v", out)
	}
}
