package extract

import (
	"strings"

	"artproc/internal/config"
)

// ColumnPattern maps a canonical field name to its lowercase alias set.
// Aliases match a header label when, after stripping every non-alphanumeric
// character from both sides, the alias is a substring of the label.
type ColumnPattern map[string][]string

// ProductionPatterns returns the configured pattern set for production
// item lists.
func ProductionPatterns() ColumnPattern {
	return ColumnPattern(config.ColumnPatterns)
}

// HeaderCandidate is one viable header row found in a grid.
type HeaderCandidate struct {
	Row     int            // zero-based row index of the header
	Columns map[string]int // canonical field -> column index
	Score   int            // count of target fields matched
	// SelfScore counts the fields the row matches without borrowing the
	// next row's cells. The row directly above a real header matches the
	// same fields through concatenation; SelfScore breaks that tie in
	// favor of the real header.
	SelfScore int
}

// DetectHeaders scans the first min(maxScan, len(grid)) rows of a grid and
// returns every row that matches at least MinHeaderScore target fields.
// Each candidate label is the row's cell concatenated with the cell beneath
// it, tolerating two-line headers. For each field the first matching column
// in left-to-right order wins; there is no backtracking.
func DetectHeaders(grid Grid, patterns ColumnPattern, maxScan int) []HeaderCandidate {
	if maxScan <= 0 || maxScan > len(grid) {
		maxScan = len(grid)
	}

	var candidates []HeaderCandidate
	for row := 0; row < maxScan; row++ {
		labels := combinedLabels(grid, row)

		columns := make(map[string]int)
		selfScore := 0
		for _, field := range config.TargetFields {
			aliases := patterns[field]
			for col, label := range labels {
				if label == "" || strings.Contains(label, "nan nan") {
					continue
				}
				if !matchesAny(label, aliases) {
					continue
				}
				columns[field] = col
				if matchesAny(grid.cell(row, col), aliases) {
					selfScore++
				}
				break
			}
		}

		if len(columns) >= config.MinHeaderScore {
			candidates = append(candidates, HeaderCandidate{
				Row:       row,
				Columns:   columns,
				Score:     len(columns),
				SelfScore: selfScore,
			})
		}
	}
	return candidates
}

// matchesAny reports whether any alias, stripped to alphanumerics, is a
// substring of the stripped label.
func matchesAny(label string, aliases []string) bool {
	cleanLabel := stripNonAlnum(label)
	if cleanLabel == "" {
		return false
	}
	for _, alias := range aliases {
		if cleanAlias := stripNonAlnum(alias); cleanAlias != "" && strings.Contains(cleanLabel, cleanAlias) {
			return true
		}
	}
	return false
}

// combinedLabels builds the per-column label for a candidate header row:
// the lower-cased, trimmed cell, concatenated with the next row's cell when
// one exists, with whitespace runs collapsed.
func combinedLabels(grid Grid, row int) []string {
	width := grid.width()
	labels := make([]string, width)
	for col := 0; col < width; col++ {
		label := strings.ToLower(strings.TrimSpace(grid.cell(row, col)))
		if row+1 < len(grid) {
			next := strings.ToLower(strings.TrimSpace(grid.cell(row+1, col)))
			label = strings.Join(strings.Fields(label+" "+next), " ")
		}
		labels[col] = label
	}
	return labels
}

// stripNonAlnum removes everything but lowercase letters and digits.
func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
