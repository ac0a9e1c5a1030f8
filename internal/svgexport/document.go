// Package svgexport assembles the per-shape SVG fragments spec.md §6
// requires every shape to emit into one standalone document: a background
// rect plus one styled element per committed shape. Grounded on
// other_examples/98941477_MushR00m-primitive's Model.SVG/Model.Add, which
// build the same wrapper-plus-accumulated-fragments shape around a
// SVG_STYLE_HOOK-equivalent attribute string.
package svgexport

import (
	"fmt"
	"strings"

	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// Document accumulates styled shape fragments for one job.
type Document struct {
	w, h       int
	background raster.RGBA
	fragments  []string
}

// New starts a document of size w x h painted with background before any
// shape is drawn.
func New(w, h int, background raster.RGBA) *Document {
	return &Document{w: w, h: h, background: background}
}

// Add splices color into s's SVG_STYLE_HOOK placeholder and appends the
// resulting fragment in commit order.
func (d *Document) Add(s shape.Shape, color raster.RGBA) {
	attrs := fmt.Sprintf(`fill="#%02x%02x%02x" fill-opacity="%f"`, color.R, color.G, color.B, float64(color.A)/255)
	fragment := strings.Replace(s.SVG(), shape.SVGStyleHook, attrs, 1)
	d.fragments = append(d.fragments, fragment)
}

// Build renders the full standalone SVG document.
func (d *Document) Build() string {
	var lines []string
	lines = append(lines, fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d">`, d.w, d.h))
	lines = append(lines, fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="#%02x%02x%02x" />`,
		d.w, d.h, d.background.R, d.background.G, d.background.B))
	lines = append(lines, d.fragments...)
	lines = append(lines, "</svg>")
	return strings.Join(lines, "\n")
}
