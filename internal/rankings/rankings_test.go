package rankings_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"reelsync/internal/rankings"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8"?>
<recentrankings>
  <film>
    <filmid>24931</filmid>
    <filmlink>https://www.example.com/film/inception/rating/someuser</filmlink>
    <filmname>Inception (2010)</filmname>
    <reviewdate>2010-07-20</reviewdate>
    <quote>Dreams within
	dreams.</quote>
    <score>95</score>
  </film>
  <film>
    <filmid>101</filmid>
    <filmlink>https://www.example.com/film/citizen-kane/rating/someuser</filmlink>
    <filmname>Citizen Kane (1941)</filmname>
    <reviewdate>2005-01-01</reviewdate>
    <quote>Rosebud.</quote>
    <score>62</score>
  </film>
</recentrankings>`

func TestDecode(t *testing.T) {
	records, err := rankings.Decode(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != 24931 {
		t.Errorf("expected id 24931, got %d", first.ID)
	}
	if first.RawName != "Inception (2010)" {
		t.Errorf("unexpected raw name %q", first.RawName)
	}
	if !first.ReviewDate.Equal(time.Date(2010, 7, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected review date %v", first.ReviewDate)
	}
	if first.Review != "Dreams within dreams." {
		t.Errorf("expected collapsed whitespace in review, got %q", first.Review)
	}
	if first.Score != 95 {
		t.Errorf("expected score 95, got %d", first.Score)
	}
}

func TestDecodeBadDate(t *testing.T) {
	bad := strings.Replace(sampleExport, "2010-07-20", "someday", 1)
	if _, err := rankings.Decode(strings.NewReader(bad)); err == nil {
		t.Fatal("expected error for unparseable review date")
	}
}

func TestSplitTitleYear(t *testing.T) {
	title, year, err := rankings.SplitTitleYear(1, " Se7en (1995) ")
	if err != nil {
		t.Fatalf("SplitTitleYear returned error: %v", err)
	}
	if title != "Se7en" {
		t.Errorf("expected trimmed title, got %q", title)
	}
	if year != 1995 {
		t.Errorf("expected year 1995, got %d", year)
	}
}

func TestSplitTitleYearKeepsInnerParens(t *testing.T) {
	title, year, err := rankings.SplitTitleYear(2, "Crash (Cronenberg) (1996)")
	if err != nil {
		t.Fatalf("SplitTitleYear returned error: %v", err)
	}
	if title != "Crash (Cronenberg)" {
		t.Errorf("expected inner parenthetical preserved, got %q", title)
	}
	if year != 1996 {
		t.Errorf("expected year 1996, got %d", year)
	}
}

func TestSplitTitleYearMissingYear(t *testing.T) {
	_, _, err := rankings.SplitTitleYear(3, "No Year Here")
	if err == nil {
		t.Fatal("expected ParseError")
	}
	var parseErr *rankings.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *rankings.ParseError, got %T", err)
	}
	if parseErr.ID != 3 {
		t.Errorf("expected record id 3 in error, got %d", parseErr.ID)
	}
}
