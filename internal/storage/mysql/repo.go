package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"review_insights/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// SaveReviews writes the batch and bumps the collection version in one
// transaction.
func (r *Repo) SaveReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*11) // 11 params per row
	for _, rv := range rs {
		scores := rv.SentimentByAspect
		if scores == nil {
			scores = map[string]float64{}
		}
		aspects, err := json.Marshal(scores)
		if err != nil {
			return fmt.Errorf("encode aspect scores for %s: %w", rv.ID, err)
		}
		var keywords []byte
		if rv.Keywords != nil {
			if keywords, err = json.Marshal(rv.Keywords); err != nil {
				return fmt.Errorf("encode keywords for %s: %w", rv.ID, err)
			}
		}
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ID,               // id
			rv.Text,             // text
			rv.Date,             // review_date
			rv.OverallSentiment, // overall_sentiment
			rv.Rating,           // rating
			string(aspects),     // aspect_scores
			rv.TripType,         // trip_type
			rv.Country,          // country
			rv.Reviewer,         // reviewer
			valJSON(keywords),   // keywords (NULL when absent)
			valStr(rv.Summary),  // summary
		)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert reviews: %w", err)
	}
	if _, err := tx.ExecContext(ctx, bumpVersionSQL); err != nil {
		return fmt.Errorf("bump version: %w", err)
	}
	return tx.Commit()
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Review, 0, 64)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) Version(ctx context.Context) (int64, error) {
	var v int64
	if err := r.db.QueryRowContext(ctx, versionSQL).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(s scanner) (domain.Review, error) {
	var rv domain.Review
	var aspects, keywords []byte
	var summary sql.NullString
	if err := s.Scan(
		&rv.ID,
		&rv.Text,
		&rv.Date,
		&rv.OverallSentiment,
		&rv.Rating,
		&aspects,
		&rv.TripType,
		&rv.Country,
		&rv.Reviewer,
		&keywords,
		&summary,
	); err != nil {
		return domain.Review{}, err
	}
	rv.SentimentByAspect = map[string]float64{}
	if len(aspects) > 0 {
		if err := json.Unmarshal(aspects, &rv.SentimentByAspect); err != nil {
			return domain.Review{}, fmt.Errorf("decode aspect scores for %s: %w", rv.ID, err)
		}
	}
	if len(keywords) > 0 {
		var kw domain.Keywords
		if err := json.Unmarshal(keywords, &kw); err != nil {
			return domain.Review{}, fmt.Errorf("decode keywords for %s: %w", rv.ID, err)
		}
		rv.Keywords = &kw
	}
	rv.Summary = summary.String
	return rv, nil
}
