// Command processor runs the artwork production data pipeline: it scans
// production item list folders, reconciles them against the tracker
// workbook and writes the combined and final output workbooks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"artproc/internal/config"
	"artproc/internal/infrastructure"
	"artproc/internal/operations"
)

func main() {
	trackerPath := flag.String("tracker", "", "path to the tracker workbook (required)")
	roots := flag.String("roots", "", "comma-separated search roots (defaults to configured search_roots)")
	fromDate := flag.String("from", "", "start of the release date range, YYYY-MM-DD (required)")
	toDate := flag.String("to", "", "end of the release date range, YYYY-MM-DD (required)")
	outDir := flag.String("out", "", "output directory (defaults to configured output_dir)")
	workers := flag.Int("workers", 0, "parallel extraction workers (defaults to configured workers)")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting artwork data processor",
		slog.String("tracker", *trackerPath),
		slog.String("from", *fromDate),
		slog.String("to", *toDate))

	var progress operations.ProgressFunc
	if !*quiet {
		progress = func(percent int, status string) {
			fmt.Printf("[%3d%%] %s\n", percent, status)
		}
	}

	pipeline := operations.NewPipeline(cfg, progress)
	summary, err := pipeline.Run(context.Background(), &operations.Request{
		TrackerPath: *trackerPath,
		SearchRoots: splitRoots(*roots),
		FromDate:    *fromDate,
		ToDate:      *toDate,
		OutputDir:   *outDir,
		Workers:     *workers,
	})
	if err != nil {
		logger.Error("Run failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nRun %s finished in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
	fmt.Printf("  Files scanned:      %d\n", summary.FilesScanned)
	fmt.Printf("  Production records: %d\n", summary.ProductionRecords)
	fmt.Printf("  Tracker records:    %d (sheet %q)\n", summary.TrackerRecords, summary.TrackerSheet)
	fmt.Printf("  Final records:      %d\n", summary.FinalRows)
	fmt.Printf("  Combined output:    %s\n", summary.CombinedPath)
	fmt.Printf("  Final output:       %s\n", summary.FinalPath)
	if summary.Warnings > 0 {
		fmt.Printf("  Warnings:           %d (see run log)\n", summary.Warnings)
	}
}

// splitRoots parses the comma-separated -roots flag, dropping empties.
func splitRoots(value string) []string {
	var roots []string
	for _, root := range strings.Split(value, ",") {
		if root = strings.TrimSpace(root); root != "" {
			roots = append(roots, root)
		}
	}
	return roots
}
