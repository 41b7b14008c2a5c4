// Package tracker resolves the authoritative tracker workbook: it probes
// every sheet (hidden included) against the required tracker schema, keeps
// the sheet yielding the most filtered records, and derives the re-release
// status and display dates.
package tracker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"artproc/internal/config"
	apperrors "artproc/internal/errors"
	"artproc/internal/extract"
	"artproc/internal/normalize"
)

// Record is one filtered tracker row, keyed by target column name.
type Record struct {
	Fields map[string]string
}

// Get returns a target column's value, or "" when absent.
func (r Record) Get(name string) string {
	return r.Fields[name]
}

// Result is the resolved tracker dataset.
type Result struct {
	Records   []Record
	SheetName string
}

// Resolve locates tracker data inside the workbook at path. Every sheet is
// probed; a sheet without the required "Rounds" column is rejected
// outright. Among qualifying sheets the one producing the most filtered
// records wins. Failure to resolve any sheet is a named stage failure.
func Resolve(path string, opts extract.Options) (*Result, apperrors.Warnings, error) {
	var warnings apperrors.Warnings

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to open tracker workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		// Last-resort degraded mode: the default sheet only.
		name := f.GetSheetName(0)
		if name == "" {
			return nil, warnings, apperrors.ErrTrackerUnresolvable
		}
		warnings.Add(path, "sheet enumeration empty, trying default sheet %q", name)
		sheets = []string{name}
	}

	var best *Result
	for _, sheet := range sheets {
		records, err := resolveSheet(f, sheet, opts)
		if err != nil {
			warnings.Add(sheet, "tracker sheet skipped: %v", err)
			continue
		}
		if records == nil {
			continue
		}
		slog.Debug("tracker sheet qualified",
			slog.String("sheet", sheet),
			slog.Int("records", len(records)))
		if best == nil || len(records) > len(best.Records) {
			best = &Result{Records: records, SheetName: sheet}
		}
	}

	if best == nil {
		return nil, warnings, apperrors.ErrTrackerUnresolvable
	}
	return best, warnings, nil
}

// resolveSheet processes one sheet as tracker data. It returns nil records
// (no error) when the sheet lacks the required structure or yields no
// filtered rows.
func resolveSheet(f *excelize.File, sheet string, opts extract.Options) ([]Record, error) {
	grid, err := extract.ReadGrid(f, sheet, opts.FullRowCap)
	if err != nil {
		return nil, err
	}
	if len(grid) < 2 {
		return nil, nil
	}

	headers := grid[0]

	// Locate each target column against the sheet's own header labels.
	found := make(map[string]int)
	for target, aliases := range config.TrackerColumnAliases {
		if col, ok := findColumn(headers, aliases); ok {
			found[target] = col
		}
	}
	roundsCol, ok := found[config.TrackerRoundsColumn]
	if !ok {
		return nil, nil
	}

	allowed := make(map[string]bool, len(config.TrackerRoundsAllowList))
	for _, v := range config.TrackerRoundsAllowList {
		allowed[v] = true
	}

	var records []Record
	for row := 1; row < len(grid); row++ {
		rounds := strings.TrimSpace(cellAt(grid, row, roundsCol))
		if !allowed[rounds] {
			continue
		}

		fields := make(map[string]string, len(found)+1)
		for target, col := range found {
			value := strings.TrimSpace(cellAt(grid, row, col))
			if target == "Artwork Release Date" {
				value = reformatReleaseDate(value)
			}
			fields[target] = value
		}
		fields["Re-Release Status"] = reReleaseStatus(rounds)
		records = append(records, Record{Fields: fields})
	}
	return records, nil
}

// findColumn matches aliases against header labels by case-insensitive
// substring containment in either direction. First alias hit wins.
func findColumn(headers []string, aliases []string) (int, bool) {
	for _, alias := range aliases {
		aliasLower := strings.ToLower(alias)
		for col, header := range headers {
			headerLower := strings.ToLower(strings.TrimSpace(header))
			if headerLower == "" {
				continue
			}
			if strings.Contains(headerLower, aliasLower) || strings.Contains(aliasLower, headerLower) {
				return col, true
			}
		}
	}
	return 0, false
}

// reformatReleaseDate renders whatever the tolerant parser accepts as a
// DD/MM/YY display string, empty when unparseable.
func reformatReleaseDate(value string) string {
	t, ok := normalize.Date(value)
	if !ok {
		return ""
	}
	return t.Format("02/01/06")
}

// reReleaseStatus derives "Yes" for rounds values carrying a re-release
// indicator (R2 or R3, case-insensitive).
func reReleaseStatus(rounds string) string {
	upper := strings.ToUpper(rounds)
	if strings.Contains(upper, "R2") || strings.Contains(upper, "R3") {
		return "Yes"
	}
	return ""
}

func cellAt(grid extract.Grid, row, col int) string {
	if row < 0 || row >= len(grid) {
		return ""
	}
	r := grid[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
