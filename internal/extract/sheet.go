package extract

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"artproc/internal/config"
	"artproc/internal/normalize"
)

// ExtractSheet locates the best header row of one worksheet and returns the
// canonical records beneath it. A sheet with no viable header yields an
// empty result and no error.
func ExtractSheet(f *excelize.File, path, sheet string, patterns ColumnPattern, opts Options) ([]Record, error) {
	scanGrid, err := ReadGrid(f, sheet, opts.ScanRowCap)
	if err != nil {
		return nil, err
	}
	if len(scanGrid) == 0 {
		return nil, nil
	}

	candidates := DetectHeaders(scanGrid, patterns, opts.HeaderScan)
	if len(candidates) == 0 {
		return nil, nil
	}

	var (
		best     []Record
		bestCand HeaderCandidate
		have     bool
	)
	for _, cand := range candidates {
		fullGrid, err := ReadGrid(f, sheet, cand.Row+1+opts.FullRowCap)
		if err != nil {
			slog.Debug("re-read failed for header candidate",
				slog.String("sheet", sheet),
				slog.Int("header_row", cand.Row),
				slog.String("error", err.Error()))
			continue
		}

		records := extractWithHeader(fullGrid, cand, path, sheet)
		if !have || betterCandidate(bestCand, len(best), cand, len(records)) {
			best = records
			bestCand = cand
			have = true
		}
	}
	return best, nil
}

// betterCandidate reports whether challenger beats incumbent. Higher score
// wins; on a score tie the candidate producing strictly more surviving
// records wins; a full tie falls to the candidate whose own row matched
// the fields, not one matching only through next-row concatenation.
func betterCandidate(incumbent HeaderCandidate, incumbentRecs int, challenger HeaderCandidate, challengerRecs int) bool {
	if challenger.Score != incumbent.Score {
		return challenger.Score > incumbent.Score
	}
	if challengerRecs != incumbentRecs {
		return challengerRecs > incumbentRecs
	}
	return challenger.SelfScore > incumbent.SelfScore
}

// extractWithHeader copies the mapped columns of every data row beneath the
// header into canonical records, dropping rows whose item number does not
// normalize to a non-empty digit string.
func extractWithHeader(grid Grid, cand HeaderCandidate, path, sheet string) []Record {
	fileName := filepath.Base(path)
	folderName := filepath.Base(filepath.Dir(path))

	var records []Record
	for row := cand.Row + 1; row < len(grid); row++ {
		var rec Record
		empty := true
		for _, field := range config.TargetFields {
			col, mapped := cand.Columns[field]
			if !mapped {
				rec.setField(field, "")
				continue
			}
			value := strings.TrimSpace(grid.cell(row, col))
			rec.setField(field, value)
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		// A record without a resolvable item number carries no business
		// value and cannot be keyed later.
		rec.ItemNumber = normalize.Identifier(rec.ItemNumber)
		if rec.ItemNumber == "" {
			continue
		}

		rec.SourceFile = fileName
		rec.SourceFolder = folderName
		rec.SourceSheet = sheet
		records = append(records, rec)
	}
	return records
}
