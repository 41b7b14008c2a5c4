// Package operations orchestrates the full processing run: discovery,
// parallel extraction, tracker resolution, reconciliation and export. It
// owns run lifecycle state, milestone progress reporting and the
// user-visible run log.
package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"artproc/internal/config"
	apperrors "artproc/internal/errors"
	"artproc/internal/exporter"
	"artproc/internal/extract"
	"artproc/internal/infrastructure"
	"artproc/internal/ingest"
	"artproc/internal/reconcile"
	"artproc/internal/tracker"
)

// ProgressFunc receives milestone notifications as (percentage, status
// text) pairs. Calls are fire-and-forget from the run's control flow.
type ProgressFunc func(percent int, status string)

// Request describes one processing run.
type Request struct {
	TrackerPath string   `validate:"required"`
	SearchRoots []string `validate:"omitempty,dive,required"`
	FromDate    string   `validate:"required,datetime=2006-01-02"`
	ToDate      string   `validate:"required,datetime=2006-01-02"`
	OutputDir   string   `validate:"omitempty"`
	Workers     int      `validate:"omitempty,min=1,max=64"`
}

// Summary reports the outcome of a completed run.
type Summary struct {
	RunID             string
	FilesScanned      int
	ProductionRecords int
	TrackerRecords    int
	TrackerSheet      string
	CombinedRows      int
	FinalRows         int
	CombinedPath      string
	FinalPath         string
	Warnings          int
	Duration          time.Duration
}

// Pipeline executes processing runs against a fixed configuration.
type Pipeline struct {
	cfg      *config.Config
	validate *validator.Validate
	progress ProgressFunc
	log      *RunLog
}

// NewPipeline creates a pipeline. progress may be nil.
func NewPipeline(cfg *config.Config, progress ProgressFunc) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		validate: validator.New(),
		progress: progress,
		log:      &RunLog{},
	}
}

// Log exposes the run log, which survives stage failures.
func (p *Pipeline) Log() *RunLog {
	return p.log
}

func (p *Pipeline) report(percent int, status string) {
	p.log.Append("%s", status)
	if p.progress != nil {
		p.progress(percent, status)
	}
}

// checkRequest validates field shapes, the date-range invariant and
// tracker existence before any work starts.
func (p *Pipeline) checkRequest(req *Request) (start, end time.Time, err error) {
	if err = p.validate.Struct(req); err != nil {
		return start, end, fmt.Errorf("invalid request: %w", err)
	}
	start, err = time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid start date %q: %w", req.FromDate, err)
	}
	end, err = time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid end date %q: %w", req.ToDate, err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("start date %s is after end date %s", req.FromDate, req.ToDate)
	}
	if _, err := os.Stat(req.TrackerPath); err != nil {
		return start, end, fmt.Errorf("tracker workbook not accessible: %w", err)
	}
	return start, end, nil
}

// Run executes the full pipeline for one request. Stage failures abort
// the run with a named error; the run log remains readable afterwards.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Summary, error) {
	start, end, err := p.checkRequest(req)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)
	logger := infrastructure.LoggerFromContext(ctx)

	state := NewRunState(runID)
	state.Start()
	p.report(10, "Starting processing run")
	logger.Info("run started",
		slog.String("from", req.FromDate),
		slog.String("to", req.ToDate),
		slog.String("tracker", req.TrackerPath))

	summary, err := p.run(ctx, req, start, end)
	if err != nil {
		state.Fail(err)
		p.log.Append("Run failed: %v", err)
		logger.Error("run failed", slog.String("error", err.Error()))
		return nil, err
	}

	state.Complete()
	summary.RunID = runID
	summary.Duration = state.Duration()
	p.report(100, fmt.Sprintf("Done: %d final records in %s", summary.FinalRows, summary.Duration.Round(time.Millisecond)))
	logger.Info("run completed",
		slog.Int("final_records", summary.FinalRows),
		slog.Duration("duration", summary.Duration))
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, req *Request, start, end time.Time) (*Summary, error) {
	logger := infrastructure.LoggerFromContext(ctx)
	summary := &Summary{}

	roots := req.SearchRoots
	if len(roots) == 0 {
		roots = p.cfg.Paths.SearchRoots
	}
	workers := req.Workers
	if workers <= 0 {
		workers = p.cfg.Processing.Workers
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = p.cfg.Paths.OutputDir
	}
	opts := extract.Options{
		ScanRowCap: p.cfg.Processing.ScanRowCap,
		FullRowCap: p.cfg.Processing.FullRowCap,
		HeaderScan: p.cfg.Processing.HeaderScan,
	}

	p.report(20, "Scanning folders for production item lists")
	files, warnings := ingest.DiscoverProductionFiles(roots)
	p.recordWarnings(summary, warnings)
	if len(files) == 0 {
		return nil, apperrors.ErrNoFilesFound
	}
	p.log.Append("Found %d workbook(s)", len(files))

	p.report(40, "Extracting production data")
	dataset, warnings, err := ingest.Consolidate(ctx, files, extract.ProductionPatterns(), opts, workers)
	p.recordWarnings(summary, warnings)
	if err != nil {
		return nil, err
	}
	summary.FilesScanned = dataset.FilesScanned
	summary.ProductionRecords = len(dataset.Records)
	p.log.Append("Extracted %d record(s) from %d file(s)", len(dataset.Records), dataset.FilesScanned)

	p.report(60, "Processing tracker workbook")
	resolved, warnings, err := tracker.Resolve(req.TrackerPath, opts)
	p.recordWarnings(summary, warnings)
	if err != nil {
		return nil, err
	}
	summary.TrackerRecords = len(resolved.Records)
	summary.TrackerSheet = resolved.SheetName
	p.log.Append("Tracker sheet %q yielded %d record(s)", resolved.SheetName, len(resolved.Records))

	p.report(70, "Combining datasets")
	combined := reconcile.Combine(dataset.Records, resolved.Records)
	summary.CombinedRows = len(combined)

	p.report(80, "Filtering by date range")
	filtered := reconcile.FilterByDateRange(combined, start, end)
	p.log.Append("Date range %s to %s kept %d of %d row(s)",
		req.FromDate, req.ToDate, len(filtered), len(combined))

	p.report(90, "Formatting final output")
	final := reconcile.Project(filtered)
	summary.FinalRows = len(final)

	p.report(95, "Saving output files")
	now := time.Now()
	summary.CombinedPath = filepath.Join(outputDir, exporter.CombinedFileName(start, end, now))
	summary.FinalPath = filepath.Join(outputDir, exporter.FinalFileName(start, end, now))
	if err := exporter.WriteCombined(summary.CombinedPath, dataset); err != nil {
		return nil, err
	}
	if err := exporter.WriteFinal(summary.FinalPath, final); err != nil {
		return nil, err
	}
	p.log.Append("Wrote %s", filepath.Base(summary.CombinedPath))
	p.log.Append("Wrote %s", filepath.Base(summary.FinalPath))

	logger.Info("outputs written",
		slog.String("combined", summary.CombinedPath),
		slog.String("final", summary.FinalPath))
	return summary, nil
}

// recordWarnings funnels stage warnings into the run log and counters.
func (p *Pipeline) recordWarnings(summary *Summary, warnings apperrors.Warnings) {
	for _, w := range warnings {
		summary.Warnings++
		p.log.Append("Warning [%s]: %s", w.Scope, w.Message)
	}
}
