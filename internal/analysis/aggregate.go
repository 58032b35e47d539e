package analysis

import (
	"sort"
	"strconv"

	"review_insights/internal/domain"
)

type sumCount struct {
	sum   float64
	count int
}

func (s *sumCount) add(v float64) {
	s.sum += v
	s.count++
}

func (s sumCount) mean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// Aggregate folds reviews into dashboard metrics. It never fails and does not
// modify its input; an empty collection yields zero values.
func Aggregate(reviews []domain.Review) domain.DashboardMetrics {
	out := domain.DashboardMetrics{
		OverallSentiment:     "0.00",
		AverageRating:        "0.0",
		ReviewCount:          len(reviews),
		MonthlyRollups:       MonthlyRollups(reviews),
		AspectAggregates:     AspectAggregates(reviews),
		TripTypeDistribution: tripTypeDistribution(reviews),
		RatingDistribution:   ratingDistribution(reviews),
	}
	if len(reviews) == 0 {
		return out
	}
	var sentiment, rating float64
	for _, r := range reviews {
		sentiment += r.OverallSentiment
		rating += float64(r.Rating)
	}
	n := float64(len(reviews))
	out.OverallSentiment = strconv.FormatFloat(sentiment/n, 'f', 2, 64)
	out.AverageRating = strconv.FormatFloat(rating/n, 'f', 1, 64)
	return out
}

// MonthKey returns the YYYY-MM bucket of an ISO date.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthlyRollups buckets reviews by month, ascending by key.
func MonthlyRollups(reviews []domain.Review) []domain.MonthlyRollup {
	type acc struct{ sentiment, rating sumCount }
	byMonth := map[string]*acc{}
	for _, r := range reviews {
		k := MonthKey(r.Date)
		a, ok := byMonth[k]
		if !ok {
			a = &acc{}
			byMonth[k] = a
		}
		a.sentiment.add(r.OverallSentiment)
		a.rating.add(float64(r.Rating))
	}

	out := make([]domain.MonthlyRollup, 0, len(byMonth))
	for k, a := range byMonth {
		out = append(out, domain.MonthlyRollup{
			Month:     k,
			Reviews:   a.sentiment.count,
			Sentiment: a.sentiment.mean(),
			Rating:    a.rating.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// AspectAggregates averages each aspect over the reviews that report it,
// sorted by score descending and then by aspect name.
func AspectAggregates(reviews []domain.Review) []domain.AspectAggregate {
	byAspect := map[string]*sumCount{}
	for _, r := range reviews {
		for aspect, score := range r.SentimentByAspect {
			sc, ok := byAspect[aspect]
			if !ok {
				sc = &sumCount{}
				byAspect[aspect] = sc
			}
			sc.add(score)
		}
	}

	out := make([]domain.AspectAggregate, 0, len(byAspect))
	for aspect, sc := range byAspect {
		out = append(out, domain.AspectAggregate{Aspect: aspect, Score: sc.mean(), Reviews: sc.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Aspect < out[j].Aspect
	})
	return out
}

// tripTypeDistribution keeps first-seen order and skips blank trip types.
func tripTypeDistribution(reviews []domain.Review) []domain.CategoryCount {
	idx := map[string]int{}
	out := make([]domain.CategoryCount, 0, 5)
	for _, r := range reviews {
		if r.TripType == "" {
			continue
		}
		i, ok := idx[r.TripType]
		if !ok {
			i = len(out)
			idx[r.TripType] = i
			out = append(out, domain.CategoryCount{Name: r.TripType})
		}
		out[i].Count++
	}
	return out
}

func ratingDistribution(reviews []domain.Review) []domain.RatingCount {
	out := make([]domain.RatingCount, 5)
	for i := range out {
		out[i].Rating = i + 1
	}
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			out[r.Rating-1].Count++
		}
	}
	return out
}
