package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_insights/internal/adapters/dataset"
	"review_insights/internal/adapters/observability"
	"review_insights/internal/analysis"
	"review_insights/internal/domain"
)

const dateLayout = "2006-01-02"

var errNoGateway = errors.New("no analysis gateway configured")

type ReviewService struct {
	repo     domain.ReviewRepository
	local    *analysis.KeywordAnalyzer
	gateway  domain.AnalysisGateway
	fallback bool
	now      func() time.Time
}

// NewReviewService accepts a nil gateway; remote analysis then fails (or
// falls back when fallback is set).
func NewReviewService(r domain.ReviewRepository, local *analysis.KeywordAnalyzer, gw domain.AnalysisGateway, fallback bool) *ReviewService {
	return &ReviewService{repo: r, local: local, gateway: gw, fallback: fallback, now: time.Now}
}

// WithClock replaces the clock used to date submitted reviews.
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// Analyze scores text with the requested strategy. A failed remote analysis
// is returned as *domain.AnalysisFailure unless fallback is enabled.
func (s *ReviewService) Analyze(ctx context.Context, text string, strategy analysis.Strategy) (domain.SentimentResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.SentimentResult{}, fmt.Errorf("%w: text is required", domain.ErrInvalidReview)
	}
	if strategy != analysis.StrategyRemote {
		return s.local.Analyze(text), nil
	}

	res, err := s.remoteSentiment(ctx, text)
	if err == nil {
		return res, nil
	}
	if !s.fallback {
		return domain.SentimentResult{}, err
	}
	log.Warn().Err(err).Str("component", "reviews").Msg("remote sentiment failed, using keyword analysis")
	observability.ObserveFallback("sentiment", err)
	res = s.local.Analyze(text)
	res.Source = analysis.SourceLocalFallback
	return res, nil
}

func (s *ReviewService) remoteSentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	if s.gateway == nil {
		return domain.SentimentResult{}, &domain.AnalysisFailure{Kind: domain.FailureTransport, Err: errNoGateway}
	}
	res, err := s.gateway.AnalyzeSentiment(ctx, text)
	if err != nil {
		return domain.SentimentResult{}, err
	}
	res.Label = analysis.SentimentLabel(res.Score)
	res.Source = analysis.SourceRemote
	return res, nil
}

// Submit analyzes a new review and stores it with a generated id. The date
// defaults to today.
func (s *ReviewService) Submit(ctx context.Context, in domain.NewReview, strategy analysis.Strategy) (domain.Review, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return domain.Review{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidReview)
	}

	res, err := s.Analyze(ctx, in.Text, strategy)
	if err != nil {
		return domain.Review{}, err
	}
	rv := reviewFromResult(uuid.NewString(), date, in, res)
	if err := s.repo.SaveReviews(ctx, []domain.Review{rv}); err != nil {
		return domain.Review{}, fmt.Errorf("save review: %w", err)
	}
	log.Info().Str("id", rv.ID).Int("rating", rv.Rating).Str("source", res.Source).Msg("review stored")
	return rv, nil
}

// ---- imports ----

type ImportService struct {
	repo    domain.ReviewRepository
	reviews *ReviewService
	workers int64
}

type ImportResult struct {
	Imported  int `json:"imported"`
	Analyzed  int `json:"analyzed"`
	Fallbacks int `json:"fallbacks"`
}

func NewImportService(r domain.ReviewRepository, reviews *ReviewService, workers int) *ImportService {
	if workers <= 0 {
		workers = 4
	}
	return &ImportService{repo: r, reviews: reviews, workers: int64(workers)}
}

// Import stores records as one batch. Records lacking sentiment data are
// analyzed first with at most workers analyses in flight; a failed remote
// analysis falls back to keyword analysis for that record.
func (s *ImportService) Import(ctx context.Context, recs []dataset.Record, strategy analysis.Strategy) (ImportResult, error) {
	today := s.reviews.now().Format(dateLayout)
	out := make([]domain.Review, len(recs))
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	var analyzed, fallbacks atomic.Int64

	for i, rec := range recs {
		if !needsAnalysis(rec) {
			out[i] = reviewFromRecord(rec, nil, today)
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return ImportResult{}, err
		}
		wg.Add(1)
		go func(i int, rec dataset.Record) {
			defer wg.Done()
			defer sem.Release(1)

			res := s.analyze(ctx, rec, strategy)
			if res.Source == analysis.SourceLocalFallback {
				fallbacks.Add(1)
			}
			analyzed.Add(1)
			out[i] = reviewFromRecord(rec, &res, today)
		}(i, rec)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return ImportResult{}, err
	}

	if err := s.repo.SaveReviews(ctx, out); err != nil {
		return ImportResult{}, fmt.Errorf("save imported reviews: %w", err)
	}
	observability.ImportedReviews.Add(float64(len(out)))

	res := ImportResult{Imported: len(out), Analyzed: int(analyzed.Load()), Fallbacks: int(fallbacks.Load())}
	log.Info().Int("imported", res.Imported).Int("analyzed", res.Analyzed).Int("fallbacks", res.Fallbacks).
		Msg("import completed")
	return res, nil
}

func (s *ImportService) analyze(ctx context.Context, rec dataset.Record, strategy analysis.Strategy) domain.SentimentResult {
	if strategy != analysis.StrategyRemote {
		return s.reviews.local.Analyze(rec.Text)
	}
	res, err := s.reviews.remoteSentiment(ctx, rec.Text)
	if err == nil {
		return res
	}
	log.Warn().Err(err).Str("id", rec.ID).Msg("remote sentiment failed during import, using keyword analysis")
	observability.ObserveFallback("import", err)
	res = s.reviews.local.Analyze(rec.Text)
	res.Source = analysis.SourceLocalFallback
	return res
}
