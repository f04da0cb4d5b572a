package merge

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfnight/converter"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func writeSolidPDF(t *testing.T, path string, colors ...color.RGBA) {
	t.Helper()

	dir := t.TempDir()
	var pages []string
	for i, c := range colors {
		img := image.NewRGBA(image.Rect(0, 0, 120, 160))
		draw.Draw(img, img.Rect, &image.Uniform{c}, image.Point{}, draw.Src)

		p := filepath.Join(dir, fmt.Sprintf("fixture-%02d.png", i))
		f, err := os.Create(p)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
		pages = append(pages, p)
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.DPI = 72
	require.NoError(t, api.ImportImagesFile(pages, path, imp, nil))
}

func centerPixel(t *testing.T, path string, n int) color.RGBA {
	t.Helper()

	doc, err := fitz.New(path)
	require.NoError(t, err)
	defer doc.Close()

	img, err := doc.ImageDPI(n, 72)
	require.NoError(t, err)

	return img.RGBAAt(img.Rect.Dx()/2, img.Rect.Dy()/2)
}

func TestMergeEmptyInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.pdf")

	err := Merge(context.Background(), nil, out)

	var mergeErr *converter.MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.ErrorIs(t, err, converter.ErrEmptyInput)
	assert.NoFileExists(t, out)
}

func TestMergeOrderAndCount(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeSolidPDF(t, a, white)
	writeSolidPDF(t, b, black, red)

	require.NoError(t, Merge(context.Background(), []string{a, b}, out))

	n, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "merged page count must be the sum of the inputs")

	// A's page first, then B's pages in order, content unchanged.
	p0 := centerPixel(t, out, 0)
	assert.Greater(t, int(p0.R)+int(p0.G)+int(p0.B), 735, "page 1 should be A's white page, got %v", p0)

	p1 := centerPixel(t, out, 1)
	assert.Less(t, int(p1.R)+int(p1.G)+int(p1.B), 30, "page 2 should be B's black page, got %v", p1)

	p2 := centerPixel(t, out, 2)
	assert.Greater(t, int(p2.R), 220, "page 3 should be B's red page, got %v", p2)
	assert.Less(t, int(p2.G)+int(p2.B), 60, "page 3 should be B's red page, got %v", p2)
}

func TestMergeSingleInput(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeSolidPDF(t, a, white, black)

	require.NoError(t, Merge(context.Background(), []string{a}, out))

	n, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMergeUnreadableInput(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	garbage := filepath.Join(dir, "garbage.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeSolidPDF(t, a, white)
	require.NoError(t, os.WriteFile(garbage, []byte("not a pdf"), 0o644))

	err := Merge(context.Background(), []string{a, garbage}, out)

	var mergeErr *converter.MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, 1, mergeErr.Index, "the failing input's index must be reported")
	assert.NoFileExists(t, out, "a failed merge must not emit a partial file")
}

func TestMergeAssociative(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	c := filepath.Join(dir, "c.pdf")
	writeSolidPDF(t, a, white)
	writeSolidPDF(t, b, black)
	writeSolidPDF(t, c, red)

	flat := filepath.Join(dir, "flat.pdf")
	require.NoError(t, Merge(context.Background(), []string{a, b, c}, flat))

	ab := filepath.Join(dir, "ab.pdf")
	require.NoError(t, Merge(context.Background(), []string{a, b}, ab))
	nested := filepath.Join(dir, "nested.pdf")
	require.NoError(t, Merge(context.Background(), []string{ab, c}, nested))

	nFlat, err := api.PageCountFile(flat)
	require.NoError(t, err)
	nNested, err := api.PageCountFile(nested)
	require.NoError(t, err)
	require.Equal(t, nFlat, nNested)

	for page := 0; page < nFlat; page++ {
		assert.Equal(t, centerPixel(t, flat, page), centerPixel(t, nested, page),
			"page %d must match between merge([a,b,c]) and merge([merge([a,b]),c])", page+1)
	}
}

func TestMergeCancelled(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeSolidPDF(t, a, white)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Merge(ctx, []string{a}, out)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, out)
}
