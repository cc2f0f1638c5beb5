// Package rankings decodes the personal film-ranking export and splits raw
// "Title (YYYY)" names into their parts.
package rankings

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
)

// Record is one externally ranked film. Records are constructed once during
// decoding and read-only afterwards.
type Record struct {
	ID         int
	SourceURL  string
	RawName    string
	ReviewDate time.Time
	Review     string
	Score      int
}

// ParseError reports a raw film name that does not end in a parenthesized
// four-digit year.
type ParseError struct {
	ID      int
	RawName string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no year in film name %q (record %d)", e.RawName, e.ID)
}

type filmElement struct {
	ID         int    `xml:"filmid"`
	Link       string `xml:"filmlink"`
	Name       string `xml:"filmname"`
	ReviewDate string `xml:"reviewdate"`
	Quote      string `xml:"quote"`
	Score      int    `xml:"score"`
}

type filmExport struct {
	Films []filmElement `xml:"film"`
}

var (
	titleYearPattern = regexp.MustCompile(`^\s*(.+?)\s*\((\d{4})\)\s*$`)
	whitespaceRuns   = regexp.MustCompile(`[\t\r\n]+`)
)

// Load reads and decodes a ranking export file.
func Load(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rankings: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode parses a ranking export. Review text has tab and newline runs
// collapsed to single spaces; the raw film name is kept unsplit so callers
// decide how to handle malformed names.
func Decode(r io.Reader) ([]Record, error) {
	var export filmExport
	if err := xml.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode rankings: %w", err)
	}

	records := make([]Record, 0, len(export.Films))
	for _, film := range export.Films {
		reviewDate, err := parseDate(film.ReviewDate)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", film.ID, err)
		}
		records = append(records, Record{
			ID:         film.ID,
			SourceURL:  strings.TrimSpace(film.Link),
			RawName:    film.Name,
			ReviewDate: reviewDate,
			Review:     whitespaceRuns.ReplaceAllString(film.Quote, " "),
			Score:      film.Score,
		})
	}
	return records, nil
}

// SplitTitleYear splits a raw "Title (YYYY)" name. Returns a ParseError when
// the trailing year pattern is absent.
func SplitTitleYear(id int, rawName string) (string, int, error) {
	m := titleYearPattern.FindStringSubmatch(rawName)
	if m == nil {
		return "", 0, &ParseError{ID: id, RawName: rawName}
	}
	title := strings.TrimSpace(m[1])
	year := 0
	for _, r := range m[2] {
		year = year*10 + int(r-'0')
	}
	return title, year, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"01/02/2006",
}

func parseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized review date %q", value)
}
