package converter

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a merge is requested with no input documents.
var ErrEmptyInput = errors.New("merge requires at least one input document")

// RenderError indicates a page could not be rasterized.
type RenderError struct {
	Page  int // zero-based page index
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render page %d: %v", e.Page+1, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// EmbedError indicates a rendered page image could not be embedded into the
// output document.
type EmbedError struct {
	Page  int
	Cause error
}

func (e *EmbedError) Error() string {
	return fmt.Sprintf("embed page %d: %v", e.Page+1, e.Cause)
}

func (e *EmbedError) Unwrap() error { return e.Cause }

// ConversionError wraps a page-level failure with document context. A whole
// conversion aborts on the first failed page; partial output is never kept.
// Page is -1 for failures not tied to a single page (open, finalize).
type ConversionError struct {
	Page  int
	Cause error
}

func (e *ConversionError) Error() string {
	if e.Page < 0 {
		return fmt.Sprintf("conversion failed: %v", e.Cause)
	}
	return fmt.Sprintf("conversion failed at page %d: %v", e.Page+1, e.Cause)
}

func (e *ConversionError) Unwrap() error { return e.Cause }

// MergeError indicates a merge could not be performed. Index identifies the
// input that could not be read, or is -1 when no single input is at fault
// (e.g. empty input list).
type MergeError struct {
	Index int
	Cause error
}

func (e *MergeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("merge failed: %v", e.Cause)
	}
	return fmt.Sprintf("merge failed: unreadable input %d: %v", e.Index+1, e.Cause)
}

func (e *MergeError) Unwrap() error { return e.Cause }

// IOError indicates a read/write/delete failure on disk.
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }
