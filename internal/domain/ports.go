package domain

import "context"

type ReviewRepository interface {
	// Write paths
	SaveReviews(ctx context.Context, rs []Review) error

	// Read paths
	GetReview(ctx context.Context, id string) (Review, error)
	ListReviews(ctx context.Context) ([]Review, error) // insertion order
	// Version changes whenever the stored collection changes.
	Version(ctx context.Context) (int64, error)
}

// AnalysisGateway is the external text-analysis collaborator. Every error it
// returns is an *AnalysisFailure.
type AnalysisGateway interface {
	AnalyzeSentiment(ctx context.Context, text string) (SentimentResult, error)
	GenerateInsights(ctx context.Context, digests []ReviewDigest) (InsightBundle, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
