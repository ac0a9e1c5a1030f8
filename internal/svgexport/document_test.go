package svgexport

import (
	"strings"
	"testing"

	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

func TestBuildContainsBackgroundAndFragments(t *testing.T) {
	doc := New(10, 20, raster.RGBA{R: 255, G: 0, B: 0, A: 255})
	doc.Add(&shape.RectangleShape{X1: 1, Y1: 1, X2: 5, Y2: 5}, raster.RGBA{R: 0, G: 128, B: 255, A: 200})

	out := doc.Build()
	if !strings.Contains(out, `width="10" height="20"`) {
		t.Fatalf("missing document dimensions: %s", out)
	}
	if !strings.Contains(out, `fill="#ff0000"`) {
		t.Fatalf("missing background fill: %s", out)
	}
	if !strings.Contains(out, "<rect x=") {
		t.Fatalf("missing shape fragment: %s", out)
	}
	if strings.Contains(out, shape.SVGStyleHook) {
		t.Fatalf("style hook leaked into output: %s", out)
	}
}

func TestAddPreservesOrder(t *testing.T) {
	doc := New(4, 4, raster.RGBA{})
	doc.Add(&shape.LineShape{X1: 0, Y1: 0, X2: 1, Y2: 1}, raster.RGBA{A: 255})
	doc.Add(&shape.CircleShape{CX: 2, CY: 2, R: 1}, raster.RGBA{A: 255})

	out := doc.Build()
	lineIdx := strings.Index(out, "<line")
	circleIdx := strings.Index(out, "<circle")
	if lineIdx == -1 || circleIdx == -1 || lineIdx > circleIdx {
		t.Fatalf("fragments out of order: %s", out)
	}
}
