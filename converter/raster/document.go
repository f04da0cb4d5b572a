package raster

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Page describes one page of an open source document. Width and height are
// in PDF points (1/72 inch).
type Page struct {
	Index  int
	Width  float64
	Height float64
}

// Document is a read-only handle to an opened source PDF. It stays open for
// the duration of one conversion and must be closed afterwards.
type Document struct {
	path  string
	fz    *fitz.Document
	pages []Page
}

// OpenDocument opens a source PDF for rendering and reads its page geometry.
func OpenDocument(path string) (*Document, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page dimensions of %s: %w", path, err)
	}

	fz, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if fz.NumPage() != len(dims) {
		fz.Close()
		return nil, fmt.Errorf("%s: renderer sees %d pages, structure has %d", path, fz.NumPage(), len(dims))
	}

	pages := make([]Page, len(dims))
	for i, d := range dims {
		pages[i] = Page{Index: i, Width: d.Width, Height: d.Height}
	}

	return &Document{path: path, fz: fz, pages: pages}, nil
}

// Path returns the filesystem path the document was opened from.
func (d *Document) Path() string { return d.path }

// Pages returns the document's pages in index order.
func (d *Document) Pages() []Page { return d.pages }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Close releases the underlying renderer resources.
func (d *Document) Close() error { return d.fz.Close() }
