// Package output writes normalized catalog records as CSV suitable for import
// into the target cataloging service.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Record is one normalized catalog row. Records are produced once per input
// record, written in input order, never mutated after creation.
type Record struct {
	Title       string
	Year        int
	ExternalID  string
	WatchedDate time.Time
	CreatedAt   time.Time
	Rating      float64
	Tags        string
	Review      string
}

var header = []string{"Title", "Year", "imdbID", "WatchedDate", "CreatedDate", "Rating", "Tags", "Review"}

const createdLayout = "2006-01-02T15:04:05.000Z07:00"

// Writer emits catalog records as CSV rows. The header row is written by
// NewWriter.
type Writer struct {
	csv *csv.Writer
}

// NewWriter wraps w and writes the header row.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return &Writer{csv: cw}, nil
}

// Write emits one record.
func (w *Writer) Write(rec Record) error {
	row := []string{
		rec.Title,
		strconv.Itoa(rec.Year),
		rec.ExternalID,
		rec.WatchedDate.Format("2006-01-02"),
		rec.CreatedAt.UTC().Format(createdLayout),
		strconv.FormatFloat(rec.Rating, 'f', 1, 64),
		rec.Tags,
		rec.Review,
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
