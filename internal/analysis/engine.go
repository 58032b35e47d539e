package analysis

import (
	"context"
	"fmt"
	"strings"

	"review_insights/internal/domain"
)

type Strategy string

const (
	StrategyLocal  Strategy = "local"
	StrategyRemote Strategy = "remote"
)

// Values reported in InsightBundle.Source.
const (
	SourceLocal         = "local"
	SourceRemote        = "remote"
	SourceLocalFallback = "local-fallback"
)

// ParseStrategy accepts "local" or "remote" in any case; empty means def.
func ParseStrategy(s string, def Strategy) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case string(StrategyLocal):
		return StrategyLocal, nil
	case string(StrategyRemote):
		return StrategyRemote, nil
	default:
		return "", fmt.Errorf("unknown analysis strategy %q", s)
	}
}

// Engine derives insight bundles either locally or through the gateway.
// It holds no mutable state and performs no retries or fallbacks of its own.
type Engine struct {
	cfg     InsightConfig
	gateway domain.AnalysisGateway
}

// NewEngine accepts a nil gateway; remote derivation then fails with a
// transport failure.
func NewEngine(cfg InsightConfig, gateway domain.AnalysisGateway) *Engine {
	return &Engine{cfg: cfg, gateway: gateway}
}

func (e *Engine) Config() InsightConfig { return e.cfg }

// DeriveInsights returns either a complete bundle or an *domain.AnalysisFailure.
// An empty collection yields an empty local bundle without a remote call.
func (e *Engine) DeriveInsights(ctx context.Context, reviews []domain.Review, strategy Strategy) (domain.InsightBundle, error) {
	if strategy != StrategyRemote || len(reviews) == 0 {
		return LocalInsights(reviews, e.cfg), nil
	}
	if e.gateway == nil {
		return domain.InsightBundle{}, &domain.AnalysisFailure{
			Kind: domain.FailureTransport,
			Err:  fmt.Errorf("no analysis gateway configured"),
		}
	}
	b, err := e.gateway.GenerateInsights(ctx, Digests(reviews))
	if err != nil {
		if _, ok := domain.AsAnalysisFailure(err); ok {
			return domain.InsightBundle{}, err
		}
		return domain.InsightBundle{}, &domain.AnalysisFailure{Kind: domain.FailureTransport, Err: err}
	}
	b.Source = SourceRemote
	return b, nil
}

// Digests compacts reviews into the shape sent for batch insight generation.
// Aspects are listed in name order.
func Digests(reviews []domain.Review) []domain.ReviewDigest {
	out := make([]domain.ReviewDigest, 0, len(reviews))
	for _, r := range reviews {
		scores := make(map[string]float64, len(r.SentimentByAspect))
		for k, v := range r.SentimentByAspect {
			scores[k] = v
		}
		out = append(out, domain.ReviewDigest{
			ID:               r.ID,
			OverallSentiment: r.OverallSentiment,
			Rating:           r.Rating,
			Aspects:          sortedKeys(r.SentimentByAspect),
			AspectScores:     scores,
			Date:             r.Date,
			TripType:         r.TripType,
		})
	}
	return out
}
