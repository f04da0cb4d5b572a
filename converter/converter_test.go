package converter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	cases := []struct {
		in   string
		want Operation
	}{
		{"convert", OpConvert},
		{"merge", OpMerge},
		{"convert-and-merge", OpConvertAndMerge},
	}
	for _, tc := range cases {
		op, err := ParseOperation(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, op)
		assert.Equal(t, tc.in, op.String())
	}

	_, err := ParseOperation("invert")
	assert.Error(t, err)
}

func TestConversionErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	pageErr := &ConversionError{Page: 4, Cause: &RenderError{Page: 4, Cause: cause}}
	assert.Contains(t, pageErr.Error(), "page 5")
	assert.ErrorIs(t, pageErr, cause)

	var renderErr *RenderError
	assert.ErrorAs(t, pageErr, &renderErr)

	docErr := &ConversionError{Page: -1, Cause: cause}
	assert.NotContains(t, docErr.Error(), "page")
}

func TestMergeErrorMessages(t *testing.T) {
	empty := &MergeError{Index: -1, Cause: ErrEmptyInput}
	assert.ErrorIs(t, empty, ErrEmptyInput)

	unreadable := &MergeError{Index: 2, Cause: errors.New("bad xref")}
	assert.Contains(t, unreadable.Error(), "input 3")
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")

	var pages []string
	for i, c := range []color.RGBA{{255, 255, 255, 255}, {0, 0, 0, 255}} {
		img := image.NewRGBA(image.Rect(0, 0, 80, 100))
		draw.Draw(img, img.Rect, &image.Uniform{c}, image.Point{}, draw.Src)

		p := filepath.Join(dir, fmt.Sprintf("page-%d.png", i))
		f, err := os.Create(p)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
		pages = append(pages, p)
	}
	imp := pdfcpu.DefaultImportConfig()
	imp.DPI = 72
	require.NoError(t, api.ImportImagesFile(pages, path, imp, nil))

	info, err := AnalyzeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
	assert.Positive(t, info.Size)
	assert.Equal(t, path, info.Path)
}

func TestAnalyzeFileMissing(t *testing.T) {
	_, err := AnalyzeFile(filepath.Join(t.TempDir(), "nope.pdf"))

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "stat", ioErr.Op)
}
