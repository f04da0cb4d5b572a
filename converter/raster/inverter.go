package raster

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pages below this height are inverted on the calling goroutine; spawning
// workers costs more than the loop saves.
const minParallelRows = 256

// Inverter applies the dark-mode color inversion to rasterized pages. Each
// R, G, B channel value v becomes 255-v; alpha is passed through. The
// operation is its own inverse, so inverting twice restores the original
// buffer byte for byte.
type Inverter struct {
	workers int
}

// NewInverter creates an Inverter that spreads work over up to workers
// goroutines per page. Values below 1 use the number of CPUs.
func NewInverter(workers int) *Inverter {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Inverter{workers: workers}
}

// Invert inverts img in place and returns it. The result is bit-identical
// whether rows are processed sequentially or concurrently, since every row
// band writes a disjoint range of the pixel buffer.
func (inv *Inverter) Invert(img *image.RGBA) *image.RGBA {
	checkBuffer(img)

	h := img.Rect.Dy()
	if inv.workers == 1 || h < minParallelRows {
		invertRows(img, 0, h)
		return img
	}

	band := (h + inv.workers - 1) / inv.workers
	var g errgroup.Group
	for y := 0; y < h; y += band {
		y0, y1 := y, min(y+band, h)
		g.Go(func() error {
			invertRows(img, y0, y1)
			return nil
		})
	}
	g.Wait() // workers never return errors

	return img
}

// invertRows inverts the half-open row range [y0, y1).
func invertRows(img *image.RGBA, y0, y1 int) {
	w := img.Rect.Dx()
	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			row[x] = 255 - row[x]
			row[x+1] = 255 - row[x+1]
			row[x+2] = 255 - row[x+2]
			// row[x+3] is alpha, untouched
		}
	}
}
