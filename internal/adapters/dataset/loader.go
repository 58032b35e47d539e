// Package dataset reads guest-review exports from spreadsheets.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Record is one spreadsheet row. Sentiment fields are optional; rows without
// them are analyzed on import.
type Record struct {
	ID               string
	Text             string
	Date             string // YYYY-MM-DD, empty when the cell was missing or unreadable
	Rating           int    // 0 when absent
	OverallSentiment *float64
	AspectScores     map[string]float64
	TripType         string
	Country          string
	Reviewer         string
}

type columns struct {
	id, text, date, rating, sentiment, tripType, country, reviewer int
	aspects                                                       map[int]string
}

// Load reads the first sheet of an .xlsx file, detecting columns by header
// heuristics. Rows without review text are skipped.
func Load(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}
	cols := detect(rows[0])
	if cols.text < 0 {
		return nil, fmt.Errorf("no review text column in header %v", rows[0])
	}

	out := make([]Record, 0, len(rows)-1)
	for _, r := range rows[1:] {
		rec := Record{
			ID:       cell(r, cols.id),
			Text:     cell(r, cols.text),
			Date:     normalizeDate(cell(r, cols.date)),
			TripType: cell(r, cols.tripType),
			Country:  cell(r, cols.country),
			Reviewer: cell(r, cols.reviewer),
		}
		if rec.Text == "" {
			continue
		}
		if v, err := strconv.ParseFloat(cell(r, cols.rating), 64); err == nil && v >= 1 && v <= 5 {
			rec.Rating = int(v + 0.5)
		}
		if v, ok := unitFloat(cell(r, cols.sentiment)); ok {
			rec.OverallSentiment = &v
		}
		for i, aspect := range cols.aspects {
			if v, ok := unitFloat(cell(r, i)); ok {
				if rec.AspectScores == nil {
					rec.AspectScores = map[string]float64{}
				}
				rec.AspectScores[aspect] = v
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func detect(header []string) columns {
	c := columns{id: -1, text: -1, date: -1, rating: -1, sentiment: -1, tripType: -1, country: -1, reviewer: -1,
		aspects: map[int]string{}}
	first := func(dst *int, i int) {
		if *dst == -1 {
			*dst = i
		}
	}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.HasPrefix(l, "aspect:") || strings.HasPrefix(l, "aspect_"):
			c.aspects[i] = strings.TrimSpace(l[len("aspect:"):])
		case strings.HasSuffix(l, " score") && !strings.Contains(l, "sentiment"):
			c.aspects[i] = strings.TrimSpace(strings.TrimSuffix(l, " score"))
		case l == "id" || strings.Contains(l, "review id"):
			first(&c.id, i)
		case strings.Contains(l, "sentiment"):
			first(&c.sentiment, i)
		case strings.Contains(l, "date"):
			first(&c.date, i)
		case strings.Contains(l, "reviewer") || strings.Contains(l, "author") || strings.Contains(l, "guest") || l == "name":
			first(&c.reviewer, i)
		case strings.Contains(l, "rating") || strings.Contains(l, "stars"):
			first(&c.rating, i)
		case strings.Contains(l, "trip") || strings.Contains(l, "travel"):
			first(&c.tripType, i)
		case strings.Contains(l, "country") || strings.Contains(l, "nationality"):
			first(&c.country, i)
		case strings.Contains(l, "text") || strings.Contains(l, "review") || strings.Contains(l, "comment"):
			first(&c.text, i)
		}
	}
	return c
}

func cell(r []string, i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

func unitFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01-02-06",
	"1/2/2006",
	"1/2/06",
	"2 Jan 2006",
	"Jan 2, 2006",
}

func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
