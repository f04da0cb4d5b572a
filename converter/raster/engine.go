package raster

import (
	"context"
	"fmt"
	"runtime"

	"pdfnight/converter"
)

// PageFunc is called after each page finishes the rasterize-invert-rebuild
// pipeline, with the number of pages done and the page total.
type PageFunc func(done, total int)

// Engine converts one PDF document to dark mode: every page is rasterized,
// color-inverted and rebuilt into a new image-based PDF.
type Engine struct {
	renderer *Renderer
	inverter *Inverter

	// OnPage, when set, receives per-page progress. Called from the
	// converting goroutine between pages.
	OnPage PageFunc
}

// NewEngine creates a conversion engine for the given scale factor.
func NewEngine(scale float64) *Engine {
	return &Engine{
		renderer: NewRenderer(scale),
		inverter: NewInverter(runtime.NumCPU()),
	}
}

// Convert converts inputPath to a dark-mode PDF at outputPath. Pages are
// processed strictly in index order; the first page-level failure aborts the
// whole conversion and discards any partial output. Cancellation is honored
// between pages, never mid-page.
func (e *Engine) Convert(ctx context.Context, inputPath, outputPath string) error {
	doc, err := OpenDocument(inputPath)
	if err != nil {
		return &converter.ConversionError{Page: -1, Cause: err}
	}
	defer doc.Close()

	builder, err := NewBuilder(e.renderer.DPI())
	if err != nil {
		return &converter.ConversionError{Page: -1, Cause: err}
	}

	pages := doc.Pages()
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			builder.Discard()
			return fmt.Errorf("conversion of %s cancelled: %w", inputPath, err)
		}

		img, err := e.renderer.Rasterize(doc, page)
		if err != nil {
			builder.Discard()
			return &converter.ConversionError{Page: page.Index, Cause: err}
		}

		img = e.inverter.Invert(img)

		if err := builder.AddPage(page, img); err != nil {
			builder.Discard()
			return &converter.ConversionError{Page: page.Index, Cause: err}
		}

		if e.OnPage != nil {
			e.OnPage(page.Index+1, len(pages))
		}
	}

	if err := builder.Finalize(outputPath); err != nil {
		return &converter.ConversionError{Page: -1, Cause: err}
	}

	return nil
}
