// Package exporter writes the pipeline's two output workbooks: the
// consolidated production data with its provenance pivots, and the final
// reconciled dataset. Writers are all-or-nothing per file.
package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"artproc/internal/config"
	apperrors "artproc/internal/errors"
	"artproc/internal/extract"
	"artproc/internal/ingest"
	"artproc/internal/reconcile"
)

// CombinedColumns is the column order of the consolidated production sheet.
var CombinedColumns = []string{
	config.FieldItemNumber,
	config.FieldVendor,
	config.FieldBrand,
	config.FieldProduct,
	config.FieldSKU,
	"Source_File",
	"Source_Folder",
	"Source_Sheet",
}

// headerFill is the header row background in output workbooks.
const headerFill = "E0E0E0"

// CombinedFileName builds the consolidated-data file name, embedding the
// requested date range and a generation timestamp.
func CombinedFileName(start, end, now time.Time) string {
	return rangedName("Combined_Data", start, end, now)
}

// FinalFileName builds the final-output file name.
func FinalFileName(start, end, now time.Time) string {
	return rangedName("Final_Output", start, end, now)
}

func rangedName(prefix string, start, end, now time.Time) string {
	return fmt.Sprintf("%s_%s_to_%s_%s.xlsx",
		prefix,
		start.Format("20060102"),
		end.Format("20060102"),
		now.Format("20060102_150405"))
}

// WriteCombined writes the consolidated production dataset: a "Combined
// Data" sheet, a "Summary" sheet, and "Source Files" / "Sheet Breakdown"
// pivots over the provenance columns.
func WriteCombined(path string, ds *ingest.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	rows := make([][]string, 0, len(ds.Records))
	for _, rec := range ds.Records {
		row := make([]string, 0, len(CombinedColumns))
		for _, column := range CombinedColumns {
			row = append(row, rec.Field(column))
		}
		rows = append(rows, row)
	}
	if err := writeDataSheet(f, "Combined Data", CombinedColumns, rows); err != nil {
		return apperrors.OutputWriteError(path, err)
	}

	summary := [][]string{
		{"Metric", "Value"},
		{"Total Records", fmt.Sprintf("%d", len(ds.Records))},
		{"Files Scanned", fmt.Sprintf("%d", ds.FilesScanned)},
		{"Generated", time.Now().Format("2006-01-02 15:04:05")},
	}
	if err := writeDataSheet(f, "Summary", summary[0], summary[1:]); err != nil {
		return apperrors.OutputWriteError(path, err)
	}

	if err := writePivot(f, "Source Files", "Source_Folder", "Source_File", ds.Records); err != nil {
		return apperrors.OutputWriteError(path, err)
	}
	if err := writePivot(f, "Sheet Breakdown", "Source_File", "Source_Sheet", ds.Records); err != nil {
		return apperrors.OutputWriteError(path, err)
	}

	return save(f, path)
}

// WriteFinal writes the reconciled dataset: a "Final Data" sheet in the
// exact final schema order plus a "Summary" sheet.
func WriteFinal(path string, records []reconcile.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, 0, len(config.FinalColumns))
		for _, column := range config.FinalColumns {
			row = append(row, rec[column])
		}
		rows = append(rows, row)
	}
	if err := writeDataSheet(f, "Final Data", config.FinalColumns, rows); err != nil {
		return apperrors.OutputWriteError(path, err)
	}

	summary := [][]string{
		{"Metric", "Value"},
		{"Total Records", fmt.Sprintf("%d", len(records))},
		{"Generated", time.Now().Format("2006-01-02 15:04:05")},
	}
	if err := writeDataSheet(f, "Summary", summary[0], summary[1:]); err != nil {
		return apperrors.OutputWriteError(path, err)
	}

	return save(f, path)
}

// writeDataSheet creates the sheet, writes the styled header row and the
// data rows, and sizes the columns.
func writeDataSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for c, header := range headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, styleID); err != nil {
		return err
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	for c, header := range headers {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, columnWidth(header)); err != nil {
			return err
		}
	}
	return nil
}

// columnWidth sizes columns by content kind: wide for names and
// descriptions, medium for dates, narrow otherwise.
func columnWidth(header string) float64 {
	lower := strings.ToLower(header)
	switch {
	case strings.Contains(lower, "name") || strings.Contains(lower, "description"):
		return 25
	case strings.Contains(lower, "date"):
		return 15
	default:
		return 12
	}
}

// writePivot writes a record-count breakdown over two provenance fields,
// sorted by the first field then the second.
func writePivot(f *excelize.File, sheet, primary, secondary string, records []extract.Record) error {
	type group struct{ primary, secondary string }
	counts := make(map[group]int)
	for _, rec := range records {
		counts[group{rec.Field(primary), rec.Field(secondary)}]++
	}

	groups := make([]group, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].primary != groups[j].primary {
			return groups[i].primary < groups[j].primary
		}
		return groups[i].secondary < groups[j].secondary
	})

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.primary, g.secondary, fmt.Sprintf("%d", counts[g])})
	}
	return writeDataSheet(f, sheet, []string{primary, secondary, "Record Count"}, rows)
}

// save writes the workbook through a temp file in the target directory and
// renames it into place, dropping the default placeholder sheet first. A
// failed write never leaves a partial output file behind.
func save(f *excelize.File, path string) error {
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return apperrors.OutputWriteError(path, err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.OutputDirError(dir, err)
	}

	// The temp name must keep the .xlsx extension: SaveAs validates the
	// target format by extension and rejects anything else.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*.xlsx")
	if err != nil {
		return apperrors.OutputWriteError(path, err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := f.SaveAs(tmpName); err != nil {
		os.Remove(tmpName)
		return apperrors.OutputWriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.OutputWriteError(path, err)
	}

	slog.Info("output file written", slog.String("path", path))
	return nil
}
