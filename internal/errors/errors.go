package errors

import (
	"errors"
	"fmt"
)

// Stage identifiers used across the pipeline
const (
	StageScan      = "scan"
	StageExtract   = "extract"
	StageTracker   = "tracker"
	StageCombine   = "combine"
	StageFilter    = "filter"
	StageFormat    = "format"
	StageSave      = "save"
)

// StageError represents a named stage failure. Stage failures abort the
// remainder of the run but leave already-produced logs and diagnostics
// intact.
type StageError struct {
	Stage   string // which pipeline stage failed
	Code    string // stable machine-readable code
	Message string // short human-readable reason
	Err     error  // wrapped cause, may be nil
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap returns the wrapped cause
func (e *StageError) Unwrap() error {
	return e.Err
}

// New creates a new StageError
func New(stage, code, message string) *StageError {
	return &StageError{Stage: stage, Code: code, Message: message}
}

// Wrap creates a new StageError wrapping a cause
func Wrap(stage, code, message string, err error) *StageError {
	return &StageError{Stage: stage, Code: code, Message: message, Err: err}
}

// Predefined stage failures
var (
	ErrNoFilesFound = New(StageScan, "NO_FILES_FOUND",
		"no production files found under the configured search roots")
	ErrNoRecordsExtracted = New(StageExtract, "NO_RECORDS_EXTRACTED",
		"no records with a valid item number were extracted from any file")
	ErrTrackerUnresolvable = New(StageTracker, "TRACKER_UNRESOLVABLE",
		"no sheet in the tracker workbook yielded usable tracker data")
	ErrCombineFailed = New(StageCombine, "COMBINE_FAILED",
		"production and tracker datasets could not be combined")
)

// OutputWriteError creates a fatal save-stage error
func OutputWriteError(path string, err error) *StageError {
	return Wrap(StageSave, "OUTPUT_WRITE_FAILED",
		fmt.Sprintf("failed to write output file %s", path), err)
}

// OutputDirError creates a fatal save-stage error for directory creation
func OutputDirError(dir string, err error) *StageError {
	return Wrap(StageSave, "OUTPUT_DIR_FAILED",
		fmt.Sprintf("failed to create output directory %s", dir), err)
}

// IsStage reports whether err is a StageError for the given stage
func IsStage(err error, stage string) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage == stage
	}
	return false
}

// Warning is a non-fatal problem recovered during a stage. Warnings are
// carried on stage results so callers decide whether to log or escalate.
type Warning struct {
	Scope   string // e.g. file or sheet the warning applies to
	Message string
}

func (w Warning) String() string {
	if w.Scope == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Scope, w.Message)
}

// Warnings is an append-only collection of non-fatal problems
type Warnings []Warning

// Add appends a warning
func (ws *Warnings) Add(scope, format string, args ...any) {
	*ws = append(*ws, Warning{Scope: scope, Message: fmt.Sprintf(format, args...)})
}

// Merge appends all warnings from another collection
func (ws *Warnings) Merge(other Warnings) {
	*ws = append(*ws, other...)
}
