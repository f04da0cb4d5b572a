// Package batch sequences conversion and merge work across a list of input
// files, manages intermediate temporary files, and reports per-file and
// overall outcomes.
package batch

import "pdfnight/converter"

// Phase names the stage of a job a progress update belongs to.
type Phase string

const (
	PhaseConverting Phase = "converting"
	PhaseMerging    Phase = "merging"
	PhaseFinalizing Phase = "finalizing"
)

// Progress is a snapshot of job progress delivered to the caller's callback.
// FilesDone only ever increases over the lifetime of a job.
type Progress struct {
	FilesDone  int
	TotalFiles int
	Phase      Phase
}

// ProgressFunc receives progress updates. Calls are serialized; the callback
// must return promptly so it cannot stall the workers.
type ProgressFunc func(Progress)

// Job describes one user-requested batch operation.
type Job struct {
	Inputs     []string // ordered, non-empty
	Op         converter.Operation
	OutputDir  string
	OutputName string  // merged output file name; empty selects the default
	Scale      float64 // render resolution multiplier
	Workers    int     // max concurrent file conversions; <1 picks a default
}

// Status is the overall outcome of a job.
type Status int

const (
	StatusDone Status = iota
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// FileResult is the outcome for a single input file.
type FileResult struct {
	Input      string
	OutputPath string // set on success
	Err        error  // set on failure
}

// Ok reports whether the file was processed successfully.
func (r FileResult) Ok() bool { return r.Err == nil }

// Result records the outcome of a whole job.
type Result struct {
	Status Status
	Files  []FileResult
	Output string // merged output path, for jobs that produce one
}
