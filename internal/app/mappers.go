package app

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"review_insights/internal/adapters/dataset"
	"review_insights/internal/domain"
)

func reviewFromResult(id, date string, in domain.NewReview, res domain.SentimentResult) domain.Review {
	tripType := strings.TrimSpace(in.TripType)
	if tripType == "" {
		tripType = domain.DefaultTripType
	}
	kw := res.Keywords
	return domain.Review{
		ID:                id,
		Text:              strings.TrimSpace(in.Text),
		Date:              date,
		OverallSentiment:  res.Score,
		Rating:            res.EstimatedRating,
		SentimentByAspect: copyScores(res.AspectScores),
		TripType:          tripType,
		Country:           strings.TrimSpace(in.Country),
		Reviewer:          strings.TrimSpace(in.Reviewer),
		Keywords:          &kw,
		Summary:           res.Summary,
	}
}

// needsAnalysis reports whether a spreadsheet row lacks any of the scores a
// stored review carries.
func needsAnalysis(rec dataset.Record) bool {
	return rec.OverallSentiment == nil || rec.AspectScores == nil || rec.Rating == 0
}

// reviewFromRecord prefers the row's own values; res fills whatever the row
// is missing and may be nil when nothing is.
func reviewFromRecord(rec dataset.Record, res *domain.SentimentResult, today string) domain.Review {
	rv := domain.Review{
		ID:                rec.ID,
		Text:              rec.Text,
		Date:              rec.Date,
		Rating:            rec.Rating,
		SentimentByAspect: copyScores(rec.AspectScores),
		TripType:          rec.TripType,
		Country:           rec.Country,
		Reviewer:          rec.Reviewer,
	}
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	if rv.Date == "" {
		rv.Date = today
	}
	if rv.TripType == "" {
		rv.TripType = domain.DefaultTripType
	}
	if rec.OverallSentiment != nil {
		rv.OverallSentiment = *rec.OverallSentiment
	}

	if res == nil {
		return rv
	}
	if rec.OverallSentiment == nil {
		rv.OverallSentiment = res.Score
	}
	if rv.Rating == 0 {
		rv.Rating = res.EstimatedRating
	}
	if rec.AspectScores == nil {
		rv.SentimentByAspect = copyScores(res.AspectScores)
	}
	kw := res.Keywords
	rv.Keywords = &kw
	rv.Summary = res.Summary
	return rv
}

func copyScores(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ---- listing ----

func matches(rv domain.Review, f domain.ReviewFilter, search string) bool {
	if search != "" &&
		!strings.Contains(strings.ToLower(rv.Text), search) &&
		!strings.Contains(strings.ToLower(rv.Reviewer), search) {
		return false
	}
	if f.Rating != 0 && rv.Rating != f.Rating {
		return false
	}
	if f.Country != "" && !strings.EqualFold(rv.Country, f.Country) {
		return false
	}
	if f.TripType != "" && !strings.EqualFold(rv.TripType, f.TripType) {
		return false
	}
	return true
}

// facets returns the sorted distinct non-empty values picked by field.
func facets(rs []domain.Review, field func(domain.Review) string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 8)
	for _, rv := range rs {
		v := field(rv)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
