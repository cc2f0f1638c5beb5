package history

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reelsync/internal/logging"
)

var rentalDatePattern = regexp.MustCompile(`^(\d\d)/(\d\d)/(\d\d)$`)

// ImportRentalActivity builds a history table from a rental-activity HTML
// export. Each row of the activity table contributes one entry: the first
// cell's link text is the title and the fourth cell holds a MM/DD/YY return
// date. The watched date is the day before the recorded date, and every entry
// carries the supplied venue label. Rows without a linked title or a matching
// date are skipped.
func ImportRentalActivity(r io.Reader, venue string, logger *slog.Logger) (Table, error) {
	logger = logging.NewComponentLogger(logger, "history")

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse rental activity: %w", err)
	}

	table := Table{}
	doc.Find("table#rhtable tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		title := cells.Eq(0).Find("a").First().Text()
		if title == "" {
			return
		}

		m := rentalDatePattern.FindStringSubmatch(cells.Eq(3).Text())
		if m == nil {
			return
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		recorded := time.Date(year+2000, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		watched := recorded.AddDate(0, 0, -1)
		table[title] = WatchedInfo{Venue: venue, WatchedDate: Date{watched}}

		logger.Debug("imported history row",
			logging.String("title", title),
			logging.String("watched_date", watched.Format("2006-01-02")))
	})

	logger.Info("imported rental activity",
		logging.Int("entry_count", len(table)))
	return table, nil
}
