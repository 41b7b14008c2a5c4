package operations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"artproc/internal/config"
)

func writeWorkbook(t *testing.T, path string, sheets map[string][][]string, hidden ...string) {
	t.Helper()
	f := excelize.NewFile()
	for sheet, rows := range sheets {
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
	for _, sheet := range hidden {
		require.NoError(t, f.SetSheetVisible(sheet, false))
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, f.SaveAs(path))
}

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.SearchRoots = []string{root}
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "out")
	return cfg
}

// Full pipeline scenario: one production workbook whose items live on a
// hidden sheet, one with no recognizable headers, and a tracker with five
// allowed rows of which the date range covers exactly two.
func TestPipelineEndToEnd(t *testing.T) {
	root := t.TempDir()
	prodDir := filepath.Join(root, "Widgets_Production Item List")

	writeWorkbook(t, filepath.Join(prodDir, "items.xlsx"), map[string][][]string{
		"Sheet1": {{"random", "noise"}},
		"Items": {
			{"Item Number", "Vendor Name", "Brand", "Product Name", "SKU"},
			{"1001", "Acme", "Sunrise", "Hammer", "New"},
			{"1002", "Acme", "Sunrise", "Chisel", "Existing"},
			{"1003", "Bolt Co", "Dusk", "Wrench", "New"},
		},
	}, "Items")
	writeWorkbook(t, filepath.Join(prodDir, "empty.xlsx"), map[string][][]string{
		"Sheet1": {{"nothing", "useful"}, {"a", "b"}},
	})

	trackerPath := filepath.Join(t.TempDir(), "tracker.xlsx")
	writeWorkbook(t, trackerPath, map[string][][]string{
		"Sheet1": {
			{"PKG3", "PKG1", "Rounds", "ReleaseDate", "File Name"},
			{"H-1", "1001", "File Release", "2024-03-15", "hammer.pdf"},
			{"H-2", "1002", "File Release", "2024-05-01", "chisel.pdf"},
			{"H-3", "1003", "File Release", "2024-06-01", "wrench.pdf"},
			{"H-4", "4001", "File Release", "2024-03-20", "bolt.pdf"},
			{"H-5", "5001", "File Release", "2024-07-01", "nut.pdf"},
			{"H-6", "6001", "Cancelled", "2024-03-10", "screw.pdf"},
			{"H-7", "7001", "On Hold", "2024-03-11", "nail.pdf"},
		},
	})

	var percents []int
	pipeline := NewPipeline(testConfig(t, root), func(percent int, status string) {
		percents = append(percents, percent)
		assert.NotEmpty(t, status)
	})

	summary, err := pipeline.Run(context.Background(), &Request{
		TrackerPath: trackerPath,
		FromDate:    "2024-03-01",
		ToDate:      "2024-03-31",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 3, summary.ProductionRecords, "hidden sheet is extracted")
	assert.Equal(t, 5, summary.TrackerRecords, "only allow-listed rounds survive")
	assert.Equal(t, 5, summary.CombinedRows, "3 matched + 2 tracker-only keys")
	assert.Equal(t, 2, summary.FinalRows, "date range covers two release dates")

	// Milestones arrive in ascending order, start to finish.
	require.NotEmpty(t, percents)
	assert.Equal(t, 10, percents[0])
	assert.Equal(t, 100, percents[len(percents)-1])
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}

	// Both output files land in the output directory.
	for _, path := range []string{summary.CombinedPath, summary.FinalPath} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	f, err := excelize.OpenFile(summary.FinalPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Final Data")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two records")
	assert.Equal(t, config.FinalColumns, rows[0])

	items := map[string]bool{}
	for _, row := range rows[1:] {
		items[row[2]] = true
	}
	assert.True(t, items["1001"], "matched in-range record kept")
	assert.True(t, items["4001"], "tracker-only in-range record kept")

	assert.NotEmpty(t, pipeline.Log().Lines())
}

func TestPipelineRejectsBadRequests(t *testing.T) {
	pipeline := NewPipeline(config.Default(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  Request
	}{
		{"missing tracker path", Request{FromDate: "2024-03-01", ToDate: "2024-03-31"}},
		{"malformed date", Request{TrackerPath: "x.xlsx", FromDate: "03/01/2024", ToDate: "2024-03-31"}},
		{"inverted range", Request{TrackerPath: "x.xlsx", FromDate: "2024-03-31", ToDate: "2024-03-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pipeline.Run(ctx, &tc.req)
			assert.Error(t, err)
		})
	}
}

func TestPipelineTrackerMustExist(t *testing.T) {
	pipeline := NewPipeline(config.Default(), nil)
	_, err := pipeline.Run(context.Background(), &Request{
		TrackerPath: filepath.Join(t.TempDir(), "absent.xlsx"),
		FromDate:    "2024-03-01",
		ToDate:      "2024-03-31",
	})
	assert.Error(t, err)
}

func TestPipelineNoFilesFoundLeavesLog(t *testing.T) {
	trackerPath := filepath.Join(t.TempDir(), "tracker.xlsx")
	writeWorkbook(t, trackerPath, map[string][][]string{
		"Sheet1": {
			{"PKG1", "Rounds"},
			{"1", "File Release"},
		},
	})

	pipeline := NewPipeline(testConfig(t, t.TempDir()), nil)
	_, err := pipeline.Run(context.Background(), &Request{
		TrackerPath: trackerPath,
		FromDate:    "2024-03-01",
		ToDate:      "2024-03-31",
	})
	require.Error(t, err)

	// The run log survives the stage failure.
	lines := pipeline.Log().Lines()
	assert.NotEmpty(t, lines)
	assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] `, lines[0])
}
