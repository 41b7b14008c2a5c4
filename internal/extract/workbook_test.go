package extract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeSheet fills a sheet from a [][]string grid, rows starting at A1.
func writeSheet(t *testing.T, f *excelize.File, sheet string, rows [][]string) {
	t.Helper()
	idx, err := f.GetSheetIndex(sheet)
	require.NoError(t, err)
	if idx < 0 {
		_, err = f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}
}

func saveWorkbook(t *testing.T, f *excelize.File, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

var itemRows = [][]string{
	{"Item Number", "Vendor Name", "Brand", "Product Name", "SKU"},
	{"1001", "Acme", "Sunrise", "Hammer", "New"},
	{"1002", "Acme", "Sunrise", "Chisel", "Existing"},
	{"1003", "Bolt Co", "Dusk", "Wrench", "New"},
}

func TestScanWorkbookReadsHiddenSheets(t *testing.T) {
	f := excelize.NewFile()
	writeSheet(t, f, "Sheet1", [][]string{{"nothing", "to", "see"}})
	writeSheet(t, f, "Hidden Items", itemRows)
	require.NoError(t, f.SetSheetVisible("Hidden Items", false))
	path := saveWorkbook(t, f, "hidden.xlsx")

	records, warnings, err := ScanWorkbook(path, ProductionPatterns(), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 3)

	// Identical to a workbook containing only that sheet.
	only := excelize.NewFile()
	writeSheet(t, only, "Sheet1", itemRows)
	onlyPath := saveWorkbook(t, only, "visible.xlsx")
	onlyRecords, _, err := ScanWorkbook(onlyPath, ProductionPatterns(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, onlyRecords, len(records))
	for i := range records {
		assert.Equal(t, onlyRecords[i].ItemNumber, records[i].ItemNumber)
		assert.Equal(t, onlyRecords[i].Vendor, records[i].Vendor)
	}
}

func TestScanWorkbookDeduplicatesWithinFile(t *testing.T) {
	f := excelize.NewFile()
	writeSheet(t, f, "Sheet1", itemRows)
	writeSheet(t, f, "Copy", [][]string{
		{"Item Number", "Vendor Name"},
		{"1001", "Duplicate Vendor"},
		{"2001", "Fresh Vendor"},
	})
	path := saveWorkbook(t, f, "dup.xlsx")

	records, _, err := ScanWorkbook(path, ProductionPatterns(), DefaultOptions())
	require.NoError(t, err)

	byItem := make(map[string]Record)
	for _, rec := range records {
		_, dup := byItem[rec.ItemNumber]
		require.False(t, dup, "item %s appears twice", rec.ItemNumber)
		byItem[rec.ItemNumber] = rec
	}
	require.Len(t, byItem, 4)
	// First occurrence wins, in sheet-enumeration order.
	assert.Equal(t, "Acme", byItem["1001"].Vendor)
	assert.Equal(t, "Fresh Vendor", byItem["2001"].Vendor)
}

func TestScanWorkbookOpenFailure(t *testing.T) {
	_, _, err := ScanWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), ProductionPatterns(), DefaultOptions())
	assert.Error(t, err)
}

func TestExtractSheetProvenanceAndFill(t *testing.T) {
	f := excelize.NewFile()
	writeSheet(t, f, "Sheet1", [][]string{
		{"Item Number", "Vendor Name"},
		{"00452", "Acme"},
		{"", "No Item"},
		{"1.23E+09", "SciCo"},
	})
	path := saveWorkbook(t, f, "prov.xlsx")

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	records, err := ExtractSheet(wb, path, "Sheet1", ProductionPatterns(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 2, "row without resolvable item number is dropped")

	assert.Equal(t, "452", records[0].ItemNumber)
	assert.Equal(t, "1230000000", records[1].ItemNumber)
	for _, rec := range records {
		assert.Equal(t, "prov.xlsx", rec.SourceFile)
		assert.Equal(t, "Sheet1", rec.SourceSheet)
		assert.NotEmpty(t, rec.SourceFolder)
		// Unmapped fields fill empty.
		assert.Empty(t, rec.Brand)
		assert.Empty(t, rec.SKU)
	}
}
