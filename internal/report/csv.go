package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteCSV writes the entries as a three-column table. Go's csv writer
// emits UTF-8, so emoji labels round-trip intact.
func WriteCSV(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	rows := [][]string{{"section", "label", "value"}}
	for _, e := range entries {
		rows = append(rows, []string{e.Section, e.Label, strconv.FormatInt(e.Value, 10)})
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return f.Close()
}
