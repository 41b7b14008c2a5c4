// Package reconcile joins the consolidated production dataset with the
// resolved tracker data, filters by release-date range and projects the
// result onto the final output schema.
package reconcile

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"artproc/internal/config"
	"artproc/internal/extract"
	"artproc/internal/normalize"
	"artproc/internal/tracker"
)

// SourceColumn carries the per-row provenance tag through combination and
// filtering. It is dropped by the final projection.
const SourceColumn = "Data Source"

// Row is one combined record, keyed by column name.
type Row map[string]string

// Combine performs a full outer join of production records and tracker
// records on the normalized item-number key. Rows with an empty key on
// either side never match anything but stay in the combined set with their
// side-only tag. Duplicate keys pair cross-product style.
func Combine(production []extract.Record, trackerRecords []tracker.Record) []Row {
	byKey := make(map[string][]int)
	for i, rec := range trackerRecords {
		key := normalize.Identifier(rec.Get("PKG1"))
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], i)
	}

	matched := make(map[string]bool)
	var rows []Row

	for _, prod := range production {
		key := normalize.Identifier(prod.ItemNumber)
		indices, ok := byKey[key]
		if key == "" || !ok {
			row := productionRow(prod, key)
			row[SourceColumn] = config.SourceProductionOnly
			rows = append(rows, row)
			continue
		}
		matched[key] = true
		for _, i := range indices {
			row := productionRow(prod, key)
			mergeTracker(row, trackerRecords[i])
			row[SourceColumn] = config.SourceBoth
			rows = append(rows, row)
		}
	}

	// Unmatched tracker rows follow, in tracker order.
	for _, rec := range trackerRecords {
		key := normalize.Identifier(rec.Get("PKG1"))
		if key != "" && matched[key] {
			continue
		}
		row := Row{config.FieldItemNumber: key}
		mergeTracker(row, rec)
		row[SourceColumn] = config.SourceTrackerOnly
		rows = append(rows, row)
	}

	slog.Debug("datasets combined",
		slog.Int("production", len(production)),
		slog.Int("tracker", len(trackerRecords)),
		slog.Int("combined", len(rows)))
	return rows
}

func productionRow(rec extract.Record, key string) Row {
	return Row{
		config.FieldItemNumber: key,
		config.FieldVendor:     rec.Vendor,
		config.FieldBrand:      rec.Brand,
		config.FieldProduct:    rec.ProductName,
		config.FieldSKU:        rec.SKU,
		"Source_File":          rec.SourceFile,
		"Source_Folder":        rec.SourceFolder,
		"Source_Sheet":         rec.SourceSheet,
	}
}

func mergeTracker(row Row, rec tracker.Record) {
	for name, value := range rec.Fields {
		if name == "PKG1" {
			continue
		}
		row[name] = value
	}
}

// FilterByDateRange keeps rows whose release date falls inside
// [start, end], bounds inclusive. The date-bearing column is located by
// preferred-name lookup with a generic "date" fallback; when no such
// column exists, or when not a single value in it parses, the filter does
// not apply and every row passes.
func FilterByDateRange(rows []Row, start, end time.Time) []Row {
	column, ok := findDateColumn(rows)
	if !ok {
		slog.Debug("no date column located, range filter skipped")
		return rows
	}

	parsed := make([]time.Time, len(rows))
	valid := make([]bool, len(rows))
	anyParsed := false
	for i, row := range rows {
		if t, ok := normalize.Date(row[column]); ok {
			parsed[i], valid[i] = t, true
			anyParsed = true
		}
	}
	if !anyParsed {
		slog.Debug("no parseable dates in corpus, range filter skipped",
			slog.String("column", column))
		return rows
	}

	out := rows[:0:0]
	for i, row := range rows {
		if !valid[i] {
			continue
		}
		if parsed[i].Before(start) || parsed[i].After(end) {
			continue
		}
		out = append(out, row)
	}
	slog.Debug("date range applied",
		slog.String("column", column),
		slog.Int("before", len(rows)),
		slog.Int("after", len(out)))
	return out
}

// findDateColumn searches the corpus's column names for a preferred date
// column, then for anything containing "date".
func findDateColumn(rows []Row) (string, bool) {
	columns := make(map[string]bool)
	var names []string
	for _, row := range rows {
		for name := range row {
			if !columns[name] {
				columns[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	for _, candidate := range config.DateColumnCandidates {
		want := canonicalName(candidate)
		for _, name := range names {
			if strings.Contains(canonicalName(name), want) {
				return name, true
			}
		}
	}
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), "date") {
			return name, true
		}
	}
	return "", false
}

func canonicalName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}

// Project maps combined rows onto the exact final output schema, in
// column order, dropping rows without an item number. An empty result is
// a valid outcome.
func Project(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row[config.FieldItemNumber] == "" {
			continue
		}
		final := make(Row, len(config.FinalColumns))
		for _, column := range config.FinalColumns {
			if column == "SKU" {
				final[column] = row[config.FieldSKU]
				continue
			}
			final[column] = row[column]
		}
		out = append(out, final)
	}
	return out
}
