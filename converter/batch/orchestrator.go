package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pdfnight/converter"
	"pdfnight/converter/merge"
	"pdfnight/converter/raster"
	"pdfnight/logx"
)

// Default file names for merged output, matching the per-file "_dark" suffix
// convention used for converted documents.
const (
	defaultMergedName     = "merged_document.pdf"
	defaultMergedDarkName = "merged_dark_document.pdf"
)

// Orchestrator runs batch jobs. One Orchestrator may run any number of jobs,
// one Run call at a time each.
type Orchestrator struct {
	onProgress ProgressFunc
}

// New creates an Orchestrator delivering progress to onProgress, which may be
// nil.
func New(onProgress ProgressFunc) *Orchestrator {
	return &Orchestrator{onProgress: onProgress}
}

// Run executes one batch job and reports its outcome. The returned error
// carries the job-level cause whenever the result status is not StatusDone;
// per-file detail is in the result. Cancellation via ctx is honored between
// pages and between files.
func (o *Orchestrator) Run(ctx context.Context, job Job) (*Result, error) {
	if len(job.Inputs) == 0 {
		if job.Op == converter.OpMerge {
			err := &converter.MergeError{Index: -1, Cause: converter.ErrEmptyInput}
			return &Result{Status: StatusFailed}, err
		}
		return &Result{Status: StatusFailed}, fmt.Errorf("no input files")
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		ioErr := &converter.IOError{Op: "mkdir", Path: job.OutputDir, Cause: err}
		return &Result{Status: StatusFailed}, ioErr
	}

	t := &tracker{total: len(job.Inputs), fn: o.onProgress}

	var (
		res *Result
		err error
	)
	switch job.Op {
	case converter.OpConvert:
		res, err = o.runConvert(ctx, job, t)
	case converter.OpMerge:
		res, err = o.runMerge(ctx, job, t)
	case converter.OpConvertAndMerge:
		res, err = o.runConvertAndMerge(ctx, job, t)
	default:
		return &Result{Status: StatusFailed}, fmt.Errorf("unknown operation: %v", job.Op)
	}

	if ctx.Err() != nil {
		res.Status = StatusCancelled
	}
	return res, err
}

// runConvert converts every input to its own output file. Failures are
// independent per file: one bad input is recorded and the rest still convert.
func (o *Orchestrator) runConvert(ctx context.Context, job Job, t *tracker) (*Result, error) {
	outputs := make([]string, len(job.Inputs))
	for i, in := range job.Inputs {
		outputs[i] = filepath.Join(job.OutputDir, darkName(in))
	}

	files, _ := o.convertAll(ctx, job, outputs, false, t)
	t.event(PhaseFinalizing)

	res := &Result{Status: StatusDone, Files: files}
	var failed int
	for _, f := range files {
		if !f.Ok() {
			failed++
		}
	}
	if failed > 0 {
		res.Status = StatusFailed
		return res, fmt.Errorf("%d of %d files failed to convert", failed, len(files))
	}
	return res, nil
}

// runMerge merges all inputs, unconverted, into one output. A single
// unreadable input fails the whole job.
func (o *Orchestrator) runMerge(ctx context.Context, job Job, t *tracker) (*Result, error) {
	out := filepath.Join(job.OutputDir, mergedName(job, defaultMergedName))

	files := make([]FileResult, len(job.Inputs))
	for i, in := range job.Inputs {
		files[i] = FileResult{Input: in}
	}
	res := &Result{Files: files}

	t.event(PhaseMerging)
	if err := merge.Merge(ctx, job.Inputs, out); err != nil {
		var mergeErr *converter.MergeError
		if errors.As(err, &mergeErr) && mergeErr.Index >= 0 {
			files[mergeErr.Index].Err = mergeErr
		}
		res.Status = StatusFailed
		return res, err
	}

	t.event(PhaseFinalizing)
	for i := range files {
		files[i].OutputPath = out
		t.fileDone(PhaseMerging)
	}
	res.Status = StatusDone
	res.Output = out
	return res, nil
}

// runConvertAndMerge converts every input into a temporary artifact, then
// merges the artifacts in original input order. Any conversion failure fails
// the whole job before the merge; merging a partial set would silently drop
// content the caller expects. The artifacts are deleted on every exit path.
func (o *Orchestrator) runConvertAndMerge(ctx context.Context, job Job, t *tracker) (*Result, error) {
	tmpDir, err := os.MkdirTemp("", "pdfnight-batch-")
	if err != nil {
		ioErr := &converter.IOError{Op: "mkdir", Path: tmpDir, Cause: err}
		return &Result{Status: StatusFailed}, ioErr
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logx.Warn("could not remove temporary artifacts in %s: %v", tmpDir, err)
		}
	}()

	// Unique artifact names so concurrently converting files never collide.
	artifacts := make([]string, len(job.Inputs))
	for i := range job.Inputs {
		artifacts[i] = filepath.Join(tmpDir, uuid.NewString()+".pdf")
	}

	files, convErr := o.convertAll(ctx, job, artifacts, true, t)
	res := &Result{Files: files}
	if convErr != nil {
		res.Status = StatusFailed
		return res, fmt.Errorf("convert-and-merge aborted: %w", convErr)
	}

	out := filepath.Join(job.OutputDir, mergedName(job, defaultMergedDarkName))
	t.event(PhaseMerging)
	if err := merge.Merge(ctx, artifacts, out); err != nil {
		res.Status = StatusFailed
		return res, err
	}

	t.event(PhaseFinalizing)
	res.Status = StatusDone
	res.Output = out
	// The per-file artifacts are deleted with tmpDir; the merged file is the
	// only output that survives the job.
	for i := range res.Files {
		res.Files[i].OutputPath = out
	}
	return res, nil
}

// convertAll converts every input to outputs[i] using a bounded worker pool.
// With failFast set, the first failure cancels the remaining conversions at
// their next page boundary; otherwise every file gets an independent outcome.
func (o *Orchestrator) convertAll(ctx context.Context, job Job, outputs []string, failFast bool, t *tracker) ([]FileResult, error) {
	results := make([]FileResult, len(job.Inputs))
	for i, in := range job.Inputs {
		results[i] = FileResult{Input: in}
	}

	workers := job.Workers
	if workers < 1 {
		workers = max(1, runtime.NumCPU()-1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, input := range job.Inputs {
		g.Go(func() error {
			eng := raster.NewEngine(job.Scale)
			eng.OnPage = func(done, total int) {
				logx.Debug("%s: page %d/%d", input, done, total)
			}

			err := eng.Convert(gctx, input, outputs[i])
			if err != nil {
				results[i].Err = err
				os.Remove(outputs[i])
			} else {
				results[i].OutputPath = outputs[i]
			}
			t.fileDone(PhaseConverting)

			if err != nil && failFast {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// darkName derives the converted output file name from an input path, e.g.
// report.pdf -> report_dark.pdf.
func darkName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_dark.pdf"
}

// mergedName picks the merged output file name, honoring a caller override.
func mergedName(job Job, fallback string) string {
	if job.OutputName != "" {
		return job.OutputName
	}
	return fallback
}

// tracker serializes progress delivery. The files-done count is monotonic no
// matter which order concurrent workers finish in, and updates are delivered
// under the lock so none are reordered or lost.
type tracker struct {
	mu    sync.Mutex
	done  int
	total int
	fn    ProgressFunc
}

// fileDone records one completed file and reports the new count.
func (t *tracker) fileDone(phase Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	if t.fn != nil {
		t.fn(Progress{FilesDone: t.done, TotalFiles: t.total, Phase: phase})
	}
}

// event reports a phase transition without advancing the file count.
func (t *tracker) event(phase Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fn != nil {
		t.fn(Progress{FilesDone: t.done, TotalFiles: t.total, Phase: phase})
	}
}
