package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/analysis"
	"review_insights/internal/domain"
)

// List filters the stored reviews, newest first. Facets are computed over the
// whole collection so filter choices stay stable while filtering.
func (s *ReviewService) List(ctx context.Context, f domain.ReviewFilter) (domain.ReviewList, error) {
	rs, err := s.repo.ListReviews(ctx)
	if err != nil {
		return domain.ReviewList{}, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	items := make([]domain.Review, 0, len(rs))
	for _, rv := range rs {
		if matches(rv, f, search) {
			items = append(items, rv)
		}
	}
	// ISO dates sort chronologically as strings
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date > items[j].Date })

	return domain.ReviewList{
		Items:     items,
		Total:     len(rs),
		Countries: facets(rs, func(r domain.Review) string { return r.Country }),
		TripTypes: facets(rs, func(r domain.Review) string { return r.TripType }),
	}, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (domain.Review, error) {
	return s.repo.GetReview(ctx, id)
}

// ---- dashboard ----

// DashboardService memoizes the aggregate per collection version, so a new
// review is visible on the next read without explicit invalidation.
type DashboardService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewDashboardService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *DashboardService) Get(ctx context.Context) (domain.DashboardMetrics, error) {
	v, err := s.repo.Version(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}
	key := fmt.Sprintf("dashboard:v%d", v)
	var m domain.DashboardMetrics
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &m); ok {
			return m, nil
		}
	}

	rs, err := s.repo.ListReviews(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}
	m = analysis.Aggregate(rs)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, m, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return m, nil
}

// ---- insights ----

type InsightService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
	engine   *analysis.Engine
	fallback bool
	flights  singleflight.Group
}

func NewInsightService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration, e *analysis.Engine, fallback bool) *InsightService {
	return &InsightService{repo: r, cache: c, cacheTTL: ttl, engine: e, fallback: fallback}
}

// Get returns the insight bundle for the current collection. Concurrent
// callers asking for the same strategy and version share one derivation.
// Fallback bundles are not cached so a recovered gateway is used again on
// the next request.
func (s *InsightService) Get(ctx context.Context, strategy analysis.Strategy) (domain.InsightBundle, error) {
	v, err := s.repo.Version(ctx)
	if err != nil {
		return domain.InsightBundle{}, err
	}
	key := fmt.Sprintf("insights:%s:v%d", strategy, v)
	var b domain.InsightBundle
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &b); ok {
			return b, nil
		}
	}

	res, err, shared := s.flights.Do(key, func() (any, error) {
		return s.derive(ctx, key, strategy)
	})
	if err != nil {
		return domain.InsightBundle{}, err
	}
	if shared {
		log.Debug().Str("key", key).Msg("insight derivation shared")
	}
	return res.(domain.InsightBundle), nil
}

func (s *InsightService) derive(ctx context.Context, key string, strategy analysis.Strategy) (domain.InsightBundle, error) {
	rs, err := s.repo.ListReviews(ctx)
	if err != nil {
		return domain.InsightBundle{}, err
	}
	b, err := s.engine.DeriveInsights(ctx, rs, strategy)
	if err != nil {
		if _, ok := domain.AsAnalysisFailure(err); !ok || !s.fallback {
			return domain.InsightBundle{}, err
		}
		log.Warn().Err(err).Str("component", "insights").Msg("remote insights failed, using local derivation")
		observability.ObserveFallback("insights", err)
		b = analysis.LocalInsights(rs, s.engine.Config())
		b.Source = analysis.SourceLocalFallback
		observability.ObserveInsights(b.Source)
		return b, nil
	}
	observability.ObserveInsights(b.Source)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, b, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return b, nil
}
