package roadmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the first row of every exported roadmap.
var CSVHeader = []string{"Roadmap", "Goal", "Week", "Topic", "Status"}

// ExportFileName returns the download name for a roadmap export.
func ExportFileName(name string) string {
	return name + "_roadmap.csv"
}

// WriteCSV writes the header followed by one row per item, in the order given.
func WriteCSV(w io.Writer, items []Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range items {
		it := &items[i]
		row := []string{it.Name, it.Goal, strconv.Itoa(it.Week), it.Topic, string(it.Status)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", it.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
