package extract

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Grid is a read-only 2-D text view of one worksheet, rows by columns,
// read without any assumed header.
type Grid [][]string

// ReadGrid reads up to maxRows rows of a worksheet as raw text. The row
// iterator is used instead of GetRows so oversized sheets stop early.
func ReadGrid(f *excelize.File, sheet string, maxRows int) (Grid, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var grid Grid
	for rows.Next() {
		if maxRows > 0 && len(grid) >= maxRows {
			break
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d of sheet %q: %w", len(grid), sheet, err)
		}
		grid = append(grid, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("row iteration failed on sheet %q: %w", sheet, err)
	}
	return grid, nil
}

// cell returns the trimmed-as-is text of (row, col), or "" when the row is
// short. Spreadsheet rows are ragged; missing cells read as empty.
func (g Grid) cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// width returns the widest row length in the grid.
func (g Grid) width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
