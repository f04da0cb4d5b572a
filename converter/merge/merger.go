// Package merge concatenates the pages of multiple PDF documents into one,
// preserving input order and page content.
package merge

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfnight/converter"
)

// Merge appends the pages of each input, in the order given, to a single new
// PDF at outputPath. Already-built pages are carried over untouched, not
// re-rendered.
//
// An empty input list fails with converter.ErrEmptyInput. An unreadable input
// fails with a MergeError naming its index, before any output is written, so
// a failed merge never leaves a partial file behind.
func Merge(ctx context.Context, inputPaths []string, outputPath string) error {
	if len(inputPaths) == 0 {
		return &converter.MergeError{Index: -1, Cause: converter.ErrEmptyInput}
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	for i, in := range inputPaths {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("merge cancelled: %w", err)
		}
		if err := api.ValidateFile(in, conf); err != nil {
			return &converter.MergeError{Index: i, Cause: err}
		}
	}

	if err := api.MergeCreateFile(inputPaths, outputPath, false, conf); err != nil {
		os.Remove(outputPath)
		return &converter.MergeError{Index: -1, Cause: err}
	}

	return nil
}
