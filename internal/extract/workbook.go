package extract

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "artproc/internal/errors"
)

// ScanWorkbook extracts records from every worksheet of one workbook.
// Sheet enumeration deliberately ignores visibility flags: hidden and
// very-hidden sheets are first-class inputs. Per-sheet failures are
// collected as warnings and the remaining sheets continue. The result is
// deduplicated by item number within the file, first occurrence winning in
// sheet-enumeration order.
func ScanWorkbook(path string, patterns ColumnPattern, opts Options) ([]Record, apperrors.Warnings, error) {
	var warnings apperrors.Warnings

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		// Degraded mode: fall back to the default sheet only.
		name := f.GetSheetName(0)
		if name == "" {
			return nil, warnings, fmt.Errorf("workbook %s exposes no sheets", path)
		}
		warnings.Add(filepath.Base(path), "sheet enumeration empty, falling back to default sheet %q", name)
		sheets = []string{name}
	}

	var all []Record
	for _, sheet := range sheets {
		records, err := ExtractSheet(f, path, sheet, patterns, opts)
		if err != nil {
			warnings.Add(filepath.Base(path), "sheet %q skipped: %v", sheet, err)
			continue
		}
		if len(records) > 0 {
			slog.Debug("extracted records from sheet",
				slog.String("file", filepath.Base(path)),
				slog.String("sheet", sheet),
				slog.Int("records", len(records)))
			all = append(all, records...)
		}
	}

	return dedupeByItemNumber(all), warnings, nil
}

// dedupeByItemNumber keeps the first record per item number, preserving
// input order.
func dedupeByItemNumber(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	out := records[:0:0]
	for _, rec := range records {
		if seen[rec.ItemNumber] {
			continue
		}
		seen[rec.ItemNumber] = true
		out = append(out, rec)
	}
	return out
}
