package analysis_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"review_insights/internal/analysis"
	"review_insights/internal/domain"
)

// ---- fakes ----

type fakeGateway struct {
	calls   int
	digests []domain.ReviewDigest
	bundle  domain.InsightBundle
	err     error
}

func (g *fakeGateway) AnalyzeSentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	return domain.SentimentResult{}, errors.New("not used")
}

func (g *fakeGateway) GenerateInsights(ctx context.Context, ds []domain.ReviewDigest) (domain.InsightBundle, error) {
	g.calls++
	g.digests = ds
	return g.bundle, g.err
}

// ---- tests ----

func TestDeriveInsights_LocalNeverCallsGateway(t *testing.T) {
	gw := &fakeGateway{}
	e := analysis.NewEngine(analysis.DefaultInsightConfig(), gw)

	b, err := e.DeriveInsights(context.Background(), sampleReviews(), analysis.StrategyLocal)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway called %d times", gw.calls)
	}
	if b.Source != analysis.SourceLocal || len(b.TopAspects) == 0 {
		t.Fatalf("bundle = %+v", b)
	}
}

func TestDeriveInsights_RemoteEmptyInputStaysLocal(t *testing.T) {
	gw := &fakeGateway{}
	e := analysis.NewEngine(analysis.DefaultInsightConfig(), gw)

	b, err := e.DeriveInsights(context.Background(), nil, analysis.StrategyRemote)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if gw.calls != 0 || b.Source != analysis.SourceLocal {
		t.Fatalf("calls=%d source=%q", gw.calls, b.Source)
	}
}

func TestDeriveInsights_RemoteSuccess(t *testing.T) {
	gw := &fakeGateway{bundle: domain.InsightBundle{
		TopAspects: []domain.AspectScore{{Aspect: "staff", Score: 0.9}},
		CompetitiveInsights: domain.CompetitiveInsights{
			Strengths:  []string{"Attentive staff"},
			Weaknesses: []string{},
		},
	}}
	e := analysis.NewEngine(analysis.DefaultInsightConfig(), gw)

	b, err := e.DeriveInsights(context.Background(), sampleReviews(), analysis.StrategyRemote)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if gw.calls != 1 || len(gw.digests) != 4 {
		t.Fatalf("calls=%d digests=%d", gw.calls, len(gw.digests))
	}
	if b.Source != analysis.SourceRemote || b.CompetitiveInsights.Strengths[0] != "Attentive staff" {
		t.Fatalf("bundle = %+v", b)
	}
}

func TestDeriveInsights_RemoteFailureIsSurfaced(t *testing.T) {
	failure := &domain.AnalysisFailure{Kind: domain.FailureRateLimited, Status: 429, Err: errors.New("slow down")}
	gw := &fakeGateway{err: failure, bundle: domain.InsightBundle{Trends: []domain.Trend{{Month: "2024-01"}}}}
	e := analysis.NewEngine(analysis.DefaultInsightConfig(), gw)

	b, err := e.DeriveInsights(context.Background(), sampleReviews(), analysis.StrategyRemote)
	if !errors.Is(err, failure) {
		t.Fatalf("expected the gateway failure, got %v", err)
	}
	if !reflect.DeepEqual(b, domain.InsightBundle{}) {
		t.Fatalf("expected zero bundle on failure, got %+v", b)
	}
}

func TestDeriveInsights_UntypedErrorBecomesTransportFailure(t *testing.T) {
	gw := &fakeGateway{err: context.DeadlineExceeded}
	e := analysis.NewEngine(analysis.DefaultInsightConfig(), gw)

	_, err := e.DeriveInsights(context.Background(), sampleReviews(), analysis.StrategyRemote)
	af, ok := domain.AsAnalysisFailure(err)
	if !ok || af.Kind != domain.FailureTransport {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestDeriveInsights_NoGateway(t *testing.T) {
	e := analysis.NewEngine(analysis.DefaultInsightConfig(), nil)

	_, err := e.DeriveInsights(context.Background(), sampleReviews(), analysis.StrategyRemote)
	if _, ok := domain.AsAnalysisFailure(err); !ok {
		t.Fatalf("expected analysis failure, got %v", err)
	}
}

func TestDigests(t *testing.T) {
	reviews := sampleReviews()
	ds := analysis.Digests(reviews)

	if len(ds) != len(reviews) {
		t.Fatalf("digests = %+v", ds)
	}
	d := ds[0]
	if d.ID != "r1" || d.Rating != 4 || d.Date != "2024-02-10" || d.TripType != "Couple" || d.OverallSentiment != 0.8 {
		t.Fatalf("digest = %+v", d)
	}
	if !reflect.DeepEqual(d.Aspects, []string{"food", "service"}) {
		t.Fatalf("aspects = %v", d.Aspects)
	}

	// digests must not alias review maps
	d.AspectScores["food"] = 0
	if reviews[0].SentimentByAspect["food"] != 0.6 {
		t.Fatalf("digest aliases review scores")
	}
}

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in   string
		want analysis.Strategy
		ok   bool
	}{
		{"", analysis.StrategyRemote, true},
		{"local", analysis.StrategyLocal, true},
		{" REMOTE ", analysis.StrategyRemote, true},
		{"magic", "", false},
	}
	for _, c := range cases {
		got, err := analysis.ParseStrategy(c.in, analysis.StrategyRemote)
		if (err == nil) != c.ok || got != c.want {
			t.Fatalf("ParseStrategy(%q) = %q, %v", c.in, got, err)
		}
	}
}
