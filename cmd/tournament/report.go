package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/brensch/salvo/store"
)

// printReport rebuilds the win table from every match summary file in dir.
func printReport(w io.Writer, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "matches_*.parquet"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no match files in %s", dir)
	}
	sort.Strings(files)

	table := newWinTable()
	matches := 0
	for _, f := range files {
		rows, err := store.ReadMatches(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		for _, r := range rows {
			table.record(r)
		}
		matches += len(rows)
	}
	fmt.Fprintf(w, "%d matches from %d files\n\n", matches, len(files))
	return table.render(w)
}
