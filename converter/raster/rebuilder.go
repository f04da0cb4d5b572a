package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"pdfnight/converter"
)

// Builder assembles an output PDF page by page. Pages are staged as PNG files
// in a private scratch directory and written out as a single PDF by Finalize.
// Importing at the same DPI the pages were rendered at restores each page's
// original geometry in points.
type Builder struct {
	dpi       int
	dir       string
	pages     []string
	finalized bool
}

// NewBuilder creates an empty Builder whose Finalize embeds pages at the
// given DPI.
func NewBuilder(dpi int) (*Builder, error) {
	dir, err := os.MkdirTemp("", "pdfnight-pages-")
	if err != nil {
		return nil, &converter.IOError{Op: "mkdir", Path: dir, Cause: err}
	}
	return &Builder{dpi: dpi, dir: dir}, nil
}

// AddPage stages one page image as the builder's next output page. Pages must
// be added in index order. Fails with EmbedError if the image cannot be
// encoded.
func (b *Builder) AddPage(page Page, img *image.RGBA) error {
	path := filepath.Join(b.dir, fmt.Sprintf("page-%05d.png", page.Index+1))
	if err := savePNG(path, img); err != nil {
		return &converter.EmbedError{Page: page.Index, Cause: err}
	}
	b.pages = append(b.pages, path)
	return nil
}

// PageCount returns the number of pages staged so far.
func (b *Builder) PageCount() int { return len(b.pages) }

// Finalize writes the staged pages to outputPath as a PDF and removes the
// scratch directory. It must be called at most once; afterwards the builder
// is spent.
func (b *Builder) Finalize(outputPath string) error {
	if b.finalized {
		return fmt.Errorf("output document already finalized")
	}
	b.finalized = true
	defer os.RemoveAll(b.dir)

	if len(b.pages) == 0 {
		return fmt.Errorf("no pages to write")
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.DPI = b.dpi

	if err := api.ImportImagesFile(b.pages, outputPath, imp, nil); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("pdfcpu import failed: %w", err)
	}

	return nil
}

// Discard drops all staged pages and the scratch directory without producing
// output. Safe to call after Finalize.
func (b *Builder) Discard() {
	b.finalized = true
	os.RemoveAll(b.dir)
}

// savePNG saves an image as a PNG file
func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
