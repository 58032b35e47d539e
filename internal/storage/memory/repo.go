// Package memory keeps reviews in process memory. It is the default store and
// the one used when the API is seeded from a spreadsheet export.
package memory

import (
	"context"
	"sync"

	"review_insights/internal/domain"
)

type Repo struct {
	mu      sync.RWMutex
	reviews []domain.Review
	byID    map[string]int
	version int64
}

func New() *Repo {
	return &Repo{byID: map[string]int{}}
}

// SaveReviews appends new reviews and replaces existing ones in place.
func (r *Repo) SaveReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range rs {
		rv = clone(rv)
		if i, ok := r.byID[rv.ID]; ok {
			r.reviews[i] = rv
			continue
		}
		r.byID[rv.ID] = len(r.reviews)
		r.reviews = append(r.reviews, rv)
	}
	r.version++
	return nil
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return clone(r.reviews[i]), nil
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Review, len(r.reviews))
	for i, rv := range r.reviews {
		out[i] = clone(rv)
	}
	return out, nil
}

func (r *Repo) Version(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version, nil
}

// clone deep-copies the reference fields so stored reviews stay immutable.
func clone(rv domain.Review) domain.Review {
	if rv.SentimentByAspect != nil {
		m := make(map[string]float64, len(rv.SentimentByAspect))
		for k, v := range rv.SentimentByAspect {
			m[k] = v
		}
		rv.SentimentByAspect = m
	}
	if rv.Keywords != nil {
		kw := domain.Keywords{
			Positive: append([]string(nil), rv.Keywords.Positive...),
			Negative: append([]string(nil), rv.Keywords.Negative...),
		}
		rv.Keywords = &kw
	}
	return rv
}
