package analysis_test

import (
	"reflect"
	"strings"
	"testing"

	"review_insights/internal/analysis"
	"review_insights/internal/domain"
)

func rv(id, date string, overall float64, aspects map[string]float64) domain.Review {
	return domain.Review{ID: id, Date: date, OverallSentiment: overall, Rating: 4, SentimentByAspect: aspects}
}

func TestTrends_OverallThenAspects(t *testing.T) {
	reviews := []domain.Review{
		rv("a", "2024-01-05", 0.5, map[string]float64{"service": 0.9}),
		rv("b", "2024-02-10", 0.8, map[string]float64{"service": 0.6, "food": 0.5}),
		rv("c", "2024-03-01", 0.8, map[string]float64{"service": 0.8}),
	}

	trends := analysis.Trends(reviews)

	want := []string{
		"Overall sentiment increased by 30.0% in Feb 2024",
		"Overall sentiment unchanged in Mar 2024",
		"Service sentiment decreased by 30.0% in Feb 2024",
		"Service sentiment increased by 20.0% in Mar 2024",
	}
	if len(trends) != len(want) {
		t.Fatalf("trends = %+v", trends)
	}
	for i, tr := range trends {
		if tr.Message != want[i] {
			t.Fatalf("trend %d message = %q, want %q", i, tr.Message, want[i])
		}
	}
	if trends[0].Type != domain.TrendOverall || trends[0].Month != "2024-02" || !approx(trends[0].Change, 0.3) {
		t.Fatalf("first trend = %+v", trends[0])
	}
	if trends[2].Type != domain.TrendAspect || trends[2].Aspect != "service" || !approx(trends[2].Change, -0.3) {
		t.Fatalf("aspect trend = %+v", trends[2])
	}
}

func TestTrends_AspectComparesWithLastReportedMonth(t *testing.T) {
	reviews := []domain.Review{
		rv("a", "2024-01-05", 0.5, map[string]float64{"pool": 0.9}),
		rv("b", "2024-02-10", 0.5, nil),
		rv("c", "2024-03-01", 0.5, map[string]float64{"pool": 0.5}),
	}

	var pool []domain.Trend
	for _, tr := range analysis.Trends(reviews) {
		if tr.Aspect == "pool" {
			pool = append(pool, tr)
		}
	}
	if len(pool) != 1 || pool[0].Month != "2024-03" || pool[0].Message != "Pool sentiment decreased by 40.0% in Mar 2024" {
		t.Fatalf("pool trends = %+v", pool)
	}
}

func TestTrends_SingleMonthHasNoTrends(t *testing.T) {
	reviews := []domain.Review{
		rv("a", "2024-01-05", 0.5, map[string]float64{"service": 0.9}),
		rv("b", "2024-01-20", 0.9, map[string]float64{"service": 0.1}),
	}
	trends := analysis.Trends(reviews)
	if trends == nil || len(trends) != 0 {
		t.Fatalf("trends = %#v", trends)
	}
}

func TestAnomalies_LeaveOneOut(t *testing.T) {
	reviews := []domain.Review{
		rv("a", "2024-01-01", 0.8, map[string]float64{"service": 0.8}),
		rv("b", "2024-01-02", 0.8, map[string]float64{"service": 0.8}),
		rv("c", "2024-01-03", 0.8, map[string]float64{"service": 0.8}),
		rv("d", "2024-01-04", 0.2, map[string]float64{"service": 0.2}),
	}

	got := analysis.Anomalies(reviews, 0.3)

	if len(got) != 1 {
		t.Fatalf("anomalies = %+v", got)
	}
	a := got[0]
	if a.ReviewID != "d" || a.Date != "2024-01-04" || a.Aspect != "service" || a.Score != 0.2 {
		t.Fatalf("anomaly = %+v", a)
	}
	if !approx(a.AverageScore, 0.8) || a.Message != "Unexpected low rating for service" {
		t.Fatalf("anomaly = %+v", a)
	}
}

func TestAnomalies_ThresholdIsInclusive(t *testing.T) {
	reviews := []domain.Review{
		rv("a", "2024-01-01", 0.9, map[string]float64{"spa": 0.9}),
		rv("b", "2024-01-02", 0.6, map[string]float64{"spa": 0.6}),
	}

	got := analysis.Anomalies(reviews, 0.3)

	if len(got) != 2 {
		t.Fatalf("anomalies = %+v", got)
	}
	if got[0].Message != "Unexpected high rating for spa" || got[1].Message != "Unexpected low rating for spa" {
		t.Fatalf("messages = %q, %q", got[0].Message, got[1].Message)
	}
}

func TestAnomalies_SingleObservationNeverFlagged(t *testing.T) {
	reviews := []domain.Review{
		rv("a", "2024-01-01", 0.9, map[string]float64{"view": 0.95}),
		rv("b", "2024-01-02", 0.2, map[string]float64{"room": 0.1}),
		rv("c", "2024-01-03", 0.3, map[string]float64{"room": 0.2}),
	}
	got := analysis.Anomalies(reviews, 0.3)
	if got == nil || len(got) != 0 {
		t.Fatalf("anomalies = %#v", got)
	}
}

func TestLocalInsights_TopBottomAndRecommendations(t *testing.T) {
	reviews := []domain.Review{
		rv("a", "2024-01-01", 0.7, map[string]float64{"staff": 0.9, "food": 0.4, "pool": 0.7}),
		rv("b", "2024-01-02", 0.6, map[string]float64{"karaoke": 0.5}),
	}

	b := analysis.LocalInsights(reviews, analysis.DefaultInsightConfig())

	wantTop := []domain.AspectScore{{Aspect: "staff", Score: 0.9}, {Aspect: "pool", Score: 0.7}, {Aspect: "karaoke", Score: 0.5}}
	if !reflect.DeepEqual(b.TopAspects, wantTop) {
		t.Fatalf("top = %+v", b.TopAspects)
	}
	wantBottom := []domain.AspectScore{{Aspect: "food", Score: 0.4}, {Aspect: "karaoke", Score: 0.5}, {Aspect: "pool", Score: 0.7}}
	if !reflect.DeepEqual(b.BottomAspects, wantBottom) {
		t.Fatalf("bottom = %+v", b.BottomAspects)
	}

	if len(b.Recommendations) != 3 {
		t.Fatalf("recommendations = %+v", b.Recommendations)
	}
	actions := analysis.DefaultActions()
	if r := b.Recommendations[0]; r.Aspect != "food" || r.Action != actions["food"] {
		t.Fatalf("first recommendation = %+v", r)
	}
	if r := b.Recommendations[1]; r.Aspect != "karaoke" || !strings.Contains(r.Action, "karaoke") {
		t.Fatalf("generic recommendation = %+v", r)
	}
	if r := b.Recommendations[2]; r.Aspect != "pool" || r.Action != actions["pool"] {
		t.Fatalf("pool recommendation = %+v", r)
	}

	if b.Source != analysis.SourceLocal {
		t.Fatalf("source = %q", b.Source)
	}
	if b.CompetitiveInsights.Strengths == nil || b.CompetitiveInsights.Weaknesses == nil {
		t.Fatalf("competitive insights should be empty lists: %+v", b.CompetitiveInsights)
	}
}

func TestLocalInsights_FewerAspectsThanTopN(t *testing.T) {
	reviews := []domain.Review{rv("a", "2024-01-01", 0.9, map[string]float64{"view": 0.95})}

	b := analysis.LocalInsights(reviews, analysis.DefaultInsightConfig())

	if len(b.TopAspects) != 1 || len(b.BottomAspects) != 1 {
		t.Fatalf("top=%+v bottom=%+v", b.TopAspects, b.BottomAspects)
	}
	if len(b.Anomalies) != 0 || len(b.Recommendations) != 0 || len(b.Trends) != 0 {
		t.Fatalf("unexpected derived facts: %+v", b)
	}
}

func TestLocalInsights_ConfigurableThresholds(t *testing.T) {
	reviews := []domain.Review{
		rv("a", "2024-01-01", 0.9, map[string]float64{"bed": 0.9}),
		rv("b", "2024-01-02", 0.7, map[string]float64{"bed": 0.7}),
	}
	cfg := analysis.DefaultInsightConfig()
	cfg.AnomalyThreshold = 0.15
	cfg.LowScoreThreshold = 0.9
	cfg.Actions = map[string]string{"bed": "Replace mattresses."}

	b := analysis.LocalInsights(reviews, cfg)

	if len(b.Anomalies) != 2 {
		t.Fatalf("anomalies = %+v", b.Anomalies)
	}
	if len(b.Recommendations) != 1 || b.Recommendations[0].Action != "Replace mattresses." {
		t.Fatalf("recommendations = %+v", b.Recommendations)
	}

	if def := analysis.LocalInsights(reviews, analysis.DefaultInsightConfig()); len(def.Anomalies) != 0 {
		t.Fatalf("default threshold flagged %+v", def.Anomalies)
	}
}

func TestLocalInsights_Empty(t *testing.T) {
	b := analysis.LocalInsights(nil, analysis.DefaultInsightConfig())
	if len(b.TopAspects)+len(b.BottomAspects)+len(b.Trends)+len(b.Anomalies)+len(b.Recommendations) != 0 {
		t.Fatalf("expected empty bundle, got %+v", b)
	}
	if b.TopAspects == nil || b.Trends == nil || b.Anomalies == nil || b.Recommendations == nil {
		t.Fatalf("lists should be empty, not nil: %#v", b)
	}
}
