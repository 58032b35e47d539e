package analysis

import (
	"fmt"
	"math"
	"sort"

	"review_insights/internal/domain"
)

// thresholds are compared with a small tolerance so 0.9-0.6 counts as 0.3
const epsilon = 1e-9

type InsightConfig struct {
	AnomalyThreshold  float64
	LowScoreThreshold float64
	TopN              int
	Actions           map[string]string
}

func DefaultInsightConfig() InsightConfig {
	return InsightConfig{
		AnomalyThreshold:  0.30,
		LowScoreThreshold: 0.75,
		TopN:              3,
		Actions:           DefaultActions(),
	}
}

// LocalInsights derives the insight bundle deterministically from reviews.
// It never fails and does not modify its input.
func LocalInsights(reviews []domain.Review, cfg InsightConfig) domain.InsightBundle {
	if cfg.TopN <= 0 {
		cfg.TopN = 3
	}
	aggs := AspectAggregates(reviews)
	top, bottom := topBottom(aggs, cfg.TopN)
	return domain.InsightBundle{
		TopAspects:      top,
		BottomAspects:   bottom,
		Trends:          Trends(reviews),
		Recommendations: recommendations(aggs, cfg),
		Anomalies:       Anomalies(reviews, cfg.AnomalyThreshold),
		CompetitiveInsights: domain.CompetitiveInsights{
			Strengths:  []string{},
			Weaknesses: []string{},
		},
		Source: SourceLocal,
	}
}

// topBottom expects aggs sorted by score descending. Bottom is returned
// weakest first; ties on either side go by aspect name.
func topBottom(aggs []domain.AspectAggregate, n int) (top, bottom []domain.AspectScore) {
	k := min(n, len(aggs))
	top = make([]domain.AspectScore, 0, k)
	bottom = make([]domain.AspectScore, 0, k)
	for _, a := range aggs[:k] {
		top = append(top, domain.AspectScore{Aspect: a.Aspect, Score: a.Score})
	}
	asc := make([]domain.AspectAggregate, len(aggs))
	copy(asc, aggs)
	sort.Slice(asc, func(i, j int) bool {
		if asc[i].Score != asc[j].Score {
			return asc[i].Score < asc[j].Score
		}
		return asc[i].Aspect < asc[j].Aspect
	})
	for _, a := range asc[:k] {
		bottom = append(bottom, domain.AspectScore{Aspect: a.Aspect, Score: a.Score})
	}
	return top, bottom
}

// Trends emits month-over-month deltas: the overall series first, then one
// series per aspect in name order. An aspect month is compared with the
// previous month in which that aspect was reported.
func Trends(reviews []domain.Review) []domain.Trend {
	out := make([]domain.Trend, 0)

	rollups := MonthlyRollups(reviews)
	for i := 1; i < len(rollups); i++ {
		change := rollups[i].Sentiment - rollups[i-1].Sentiment
		out = append(out, domain.Trend{
			Type:    domain.TrendOverall,
			Month:   rollups[i].Month,
			Change:  change,
			Message: trendMessage("Overall", change, rollups[i].Month),
		})
	}

	byAspect := map[string]map[string]*sumCount{}
	for _, r := range reviews {
		k := MonthKey(r.Date)
		for aspect, score := range r.SentimentByAspect {
			months, ok := byAspect[aspect]
			if !ok {
				months = map[string]*sumCount{}
				byAspect[aspect] = months
			}
			sc, ok := months[k]
			if !ok {
				sc = &sumCount{}
				months[k] = sc
			}
			sc.add(score)
		}
	}
	for _, aspect := range sortedKeys(byAspect) {
		months := byAspect[aspect]
		keys := sortedKeys(months)
		for i := 1; i < len(keys); i++ {
			change := months[keys[i]].mean() - months[keys[i-1]].mean()
			out = append(out, domain.Trend{
				Type:    domain.TrendAspect,
				Month:   keys[i],
				Aspect:  aspect,
				Change:  change,
				Message: trendMessage(capitalize(aspect), change, keys[i]),
			})
		}
	}
	return out
}

func trendMessage(subject string, change float64, month string) string {
	pct := math.Abs(change) * 100
	switch {
	case pct < 0.05:
		return fmt.Sprintf("%s sentiment unchanged in %s", subject, FormatMonth(month))
	case change > 0:
		return fmt.Sprintf("%s sentiment increased by %.1f%% in %s", subject, pct, FormatMonth(month))
	default:
		return fmt.Sprintf("%s sentiment decreased by %.1f%% in %s", subject, pct, FormatMonth(month))
	}
}

// Anomalies flags review aspect scores that deviate from the mean of every
// other review reporting the same aspect by at least threshold. An aspect
// reported only once is never flagged.
func Anomalies(reviews []domain.Review, threshold float64) []domain.Anomaly {
	totals := map[string]*sumCount{}
	for _, r := range reviews {
		for aspect, score := range r.SentimentByAspect {
			sc, ok := totals[aspect]
			if !ok {
				sc = &sumCount{}
				totals[aspect] = sc
			}
			sc.add(score)
		}
	}

	out := make([]domain.Anomaly, 0)
	for _, r := range reviews {
		for _, aspect := range sortedKeys(r.SentimentByAspect) {
			score := r.SentimentByAspect[aspect]
			sc := totals[aspect]
			if sc.count < 2 {
				continue
			}
			others := (sc.sum - score) / float64(sc.count-1)
			diff := score - others
			if math.Abs(diff) < threshold-epsilon {
				continue
			}
			direction := "high"
			if diff < 0 {
				direction = "low"
			}
			out = append(out, domain.Anomaly{
				ReviewID:     r.ID,
				Date:         r.Date,
				Aspect:       aspect,
				Score:        score,
				AverageScore: round(others, 2),
				Message:      "Unexpected " + direction + " rating for " + aspect,
			})
		}
	}
	return out
}

// recommendations lists weak aspects, weakest first and then by name.
func recommendations(aggs []domain.AspectAggregate, cfg InsightConfig) []domain.Recommendation {
	out := make([]domain.Recommendation, 0)
	for _, a := range aggs {
		if a.Score >= cfg.LowScoreThreshold {
			continue
		}
		action, ok := cfg.Actions[a.Aspect]
		if !ok {
			action = genericAction(a.Aspect)
		}
		out = append(out, domain.Recommendation{Aspect: a.Aspect, Score: a.Score, Action: action})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].Aspect < out[j].Aspect
	})
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
