// Package converter holds the configuration and error types shared by the
// dark-mode conversion and merge engines.
package converter

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DefaultScale is the default render resolution multiplier. At scale 1.0 a
// page is rasterized at 72 DPI (one pixel per point); 2.0 doubles that.
const DefaultScale = 2.0

// Operation selects what a batch job does with its input files.
type Operation int

const (
	// OpConvert converts each input to a dark-mode PDF of its own.
	OpConvert Operation = iota
	// OpMerge concatenates the inputs into one PDF, unconverted.
	OpMerge
	// OpConvertAndMerge converts each input, then merges the converted
	// documents into one PDF.
	OpConvertAndMerge
)

func (op Operation) String() string {
	switch op {
	case OpConvert:
		return "convert"
	case OpMerge:
		return "merge"
	case OpConvertAndMerge:
		return "convert-and-merge"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// ParseOperation maps a CLI operation name to its Operation value.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "convert":
		return OpConvert, nil
	case "merge":
		return OpMerge, nil
	case "convert-and-merge":
		return OpConvertAndMerge, nil
	default:
		return 0, fmt.Errorf("unknown operation: %s (must be 'convert', 'merge' or 'convert-and-merge')", s)
	}
}

// Config holds the settings consumed by the core engines.
type Config struct {
	Scale     float64 // render resolution multiplier, > 0
	Operation Operation
	OutputDir string
}

// FileInfo describes an input PDF before processing.
type FileInfo struct {
	Path  string
	Size  int64 // bytes
	Pages int
}

// AnalyzeFile reads basic facts about an input PDF: byte size and page count.
// An unreadable or non-PDF file yields an IOError.
func AnalyzeFile(path string) (FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, &IOError{Op: "stat", Path: path, Cause: err}
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return FileInfo{}, &IOError{Op: "read", Path: path, Cause: err}
	}

	return FileInfo{Path: path, Size: fi.Size(), Pages: pages}, nil
}
