package raster

import (
	"fmt"
	"image"
	"math"

	"pdfnight/converter"
)

// Renderer rasterizes single pages of a source document. The scale factor
// multiplies the page's native 72 DPI resolution, so memory and time grow
// quadratically with scale.
type Renderer struct {
	scale float64
}

// NewRenderer creates a Renderer for the given scale factor. Scale must be
// positive; zero or negative falls back to the default.
func NewRenderer(scale float64) *Renderer {
	if scale <= 0 {
		scale = converter.DefaultScale
	}
	return &Renderer{scale: scale}
}

// DPI returns the render resolution derived from the scale factor.
func (r *Renderer) DPI() int {
	return int(math.Round(72 * r.scale))
}

// Rasterize renders one page to an RGBA pixel buffer. The returned image is
// owned by the caller. Fails with RenderError if the page cannot be decoded.
func (r *Renderer) Rasterize(doc *Document, page Page) (*image.RGBA, error) {
	img, err := doc.fz.ImageDPI(page.Index, float64(r.DPI()))
	if err != nil {
		return nil, &converter.RenderError{Page: page.Index, Cause: err}
	}

	checkBuffer(img)
	return img, nil
}

// checkBuffer enforces the pixel buffer invariant: a tightly packed buffer of
// exactly width*height*4 bytes. A violation is an internal error, never a
// recoverable condition.
func checkBuffer(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride != w*4 || len(img.Pix) != w*h*4 {
		panic(fmt.Sprintf("raster buffer mismatch: %dx%d stride=%d len=%d", w, h, img.Stride, len(img.Pix)))
	}
}
