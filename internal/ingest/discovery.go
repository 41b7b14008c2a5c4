// Package ingest discovers production workbooks and fans extraction out
// over a bounded worker pool, consolidating the per-file results into one
// deduplicated dataset.
package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"artproc/internal/config"
	apperrors "artproc/internal/errors"
)

// workbookExtensions are the accepted spreadsheet extensions.
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".xlsm": true,
}

// DiscoverProductionFiles walks the search roots and returns every workbook
// found inside a production item list folder. Temp/lock files (names
// starting with "~", "$" or ".") are skipped, as are dot-directories.
// Unwalkable roots produce warnings, not errors.
func DiscoverProductionFiles(roots []string) ([]string, apperrors.Warnings) {
	var (
		files    []string
		warnings apperrors.Warnings
	)

	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			warnings.Add(root, "search root skipped: %v", err)
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				warnings.Add(path, "walk error: %v", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return fs.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(filepath.Dir(path), config.ProductionFolderSuffix) {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, "~") || strings.HasPrefix(name, "$") || strings.HasPrefix(name, ".") {
				return nil
			}
			if !workbookExtensions[strings.ToLower(filepath.Ext(name))] {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			warnings.Add(root, "walk aborted: %v", err)
		}
	}

	return files, warnings
}
