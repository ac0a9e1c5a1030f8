// Package raster implements the RGBA8 bitmap container and scanline
// primitives that the rest of the engine composites onto.
package raster

import "fmt"

// RGBA is a straight-alpha 8-bit color. Unlike image/color.RGBA, channels
// are not premultiplied — the blitter in package score is responsible for
// the src-over math.
type RGBA struct {
	R, G, B, A uint8
}

// DimensionError reports a precondition violation on a Bitmap's geometry.
// Construction and compositing treat this as a programmer error: callers
// that want to recover from it may type-assert on the panic value.
type DimensionError struct {
	Op   string
	W, H int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("raster: %s: invalid dimensions %dx%d", e.Op, e.W, e.H)
}

// Bitmap is a row-major RGBA8 raster buffer with fixed width and height.
type Bitmap struct {
	w, h int
	pix  []uint8
}

// New creates a w×h bitmap filled with a single color.
func New(w, h int, fill RGBA) *Bitmap {
	if w <= 0 || h <= 0 {
		panic(&DimensionError{Op: "New", W: w, H: h})
	}
	b := &Bitmap{w: w, h: h, pix: make([]uint8, 4*w*h)}
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i+0] = fill.R
		b.pix[i+1] = fill.G
		b.pix[i+2] = fill.B
		b.pix[i+3] = fill.A
	}
	return b
}

// NewFromBytes wraps an existing row-major RGBA8 buffer. The slice is used
// directly (not copied); callers that need an independent copy should call
// Clone on the resulting Bitmap.
func NewFromBytes(w, h int, pix []uint8) *Bitmap {
	if w <= 0 || h <= 0 {
		panic(&DimensionError{Op: "NewFromBytes", W: w, H: h})
	}
	if len(pix) != 4*w*h {
		panic(&DimensionError{Op: "NewFromBytes", W: w, H: h})
	}
	return &Bitmap{w: w, h: h, pix: pix}
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.w }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.h }

// Pix returns the underlying row-major RGBA8 buffer. Callers must not
// change its length; mutating its contents is allowed and is how the
// blitter composites.
func (b *Bitmap) Pix() []uint8 { return b.pix }

// offset returns the byte offset of pixel (x, y) without bounds checking.
func (b *Bitmap) offset(x, y int) int { return y*b.w*4 + x*4 }

// At returns the color of the pixel at (x, y).
func (b *Bitmap) At(x, y int) RGBA {
	i := b.offset(x, y)
	return RGBA{b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]}
}

// Set writes the color of the pixel at (x, y).
func (b *Bitmap) Set(x, y int, c RGBA) {
	i := b.offset(x, y)
	b.pix[i+0] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
}

// Fill overwrites every pixel with c.
func (b *Bitmap) Fill(c RGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i+0] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// Clone returns an independent copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	cp := make([]uint8, len(b.pix))
	copy(cp, b.pix)
	return &Bitmap{w: b.w, h: b.h, pix: cp}
}

// CopyFrom overwrites this bitmap's pixels from src. Dimensions must match.
func (b *Bitmap) CopyFrom(src *Bitmap) {
	if src.w != b.w || src.h != b.h {
		panic(&DimensionError{Op: "CopyFrom", W: src.w, H: src.h})
	}
	copy(b.pix, src.pix)
}
