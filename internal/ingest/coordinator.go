package ingest

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	apperrors "artproc/internal/errors"
	"artproc/internal/extract"
	"artproc/internal/infrastructure"
	"artproc/internal/normalize"
)

// Dataset is the consolidated, corpus-wide set of extracted records.
// Every record carries a non-empty, digits-only item number.
type Dataset struct {
	Records []extract.Record
	// FilesScanned is the number of workbooks submitted to the pool.
	FilesScanned int
}

// fileResult is one worker's private result slot.
type fileResult struct {
	records  []extract.Record
	warnings apperrors.Warnings
}

// Consolidate fans Workbook scanning out over a bounded pool, one task per
// file, then merges the per-file datasets. Per-file failures contribute
// zero records and a warning; they never abort the batch. The stage fails
// only when the final consolidated set is empty.
func Consolidate(ctx context.Context, files []string, patterns extract.ColumnPattern, opts extract.Options, workers int) (*Dataset, apperrors.Warnings, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	if workers <= 0 {
		workers = 1
	}

	// Each task writes only its own slot; the merge below runs on the
	// calling goroutine after Wait.
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			records, warnings, err := extract.ScanWorkbook(path, patterns, opts)
			if err != nil {
				warnings.Add(filepath.Base(path), "workbook skipped: %v", err)
				records = nil
			}
			results[i] = fileResult{records: records, warnings: warnings}
			return nil
		})
	}
	// Tasks never return errors; Wait is the single synchronization point.
	_ = g.Wait()

	var (
		warnings apperrors.Warnings
		merged   []extract.Record
	)
	for _, res := range results {
		warnings.Merge(res.warnings)
		merged = append(merged, res.records...)
	}

	merged = dedupeAcrossFiles(merged)
	merged = cleanDataset(merged)

	logger.Info("consolidation complete",
		slog.Int("files", len(files)),
		slog.Int("records", len(merged)),
		slog.Int("warnings", len(warnings)))

	if len(merged) == 0 {
		return nil, warnings, apperrors.ErrNoRecordsExtracted
	}
	return &Dataset{Records: merged, FilesScanned: len(files)}, warnings, nil
}

// dedupeAcrossFiles keeps the first record per (item number, source file).
func dedupeAcrossFiles(records []extract.Record) []extract.Record {
	type key struct{ item, file string }
	seen := make(map[key]bool, len(records))
	out := records[:0:0]
	for _, rec := range records {
		k := key{rec.ItemNumber, rec.SourceFile}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, rec)
	}
	return out
}

// cleanDataset applies text normalization to every text field and drops
// any record whose item number no longer resolves, a final guard after
// merging.
func cleanDataset(records []extract.Record) []extract.Record {
	out := records[:0:0]
	for _, rec := range records {
		rec.Vendor = normalize.Text(rec.Vendor)
		rec.Brand = normalize.Text(rec.Brand)
		rec.ProductName = normalize.Text(rec.ProductName)
		rec.SKU = normalize.Text(rec.SKU)
		rec.SourceFile = normalize.Text(rec.SourceFile)
		rec.SourceFolder = normalize.Text(rec.SourceFolder)
		rec.SourceSheet = normalize.Text(rec.SourceSheet)

		rec.ItemNumber = normalize.Identifier(rec.ItemNumber)
		if rec.ItemNumber == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}
