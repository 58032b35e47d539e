package groq

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"review_insights/internal/domain"
)

func malformed(format string, args ...any) *domain.AnalysisFailure {
	return &domain.AnalysisFailure{Kind: domain.FailureMalformed, Status: http.StatusOK, Err: fmt.Errorf(format, args...)}
}

// extractJSON returns the outermost {...} span of content; models tend to
// wrap JSON in prose or code fences.
func extractJSON(content string) ([]byte, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end < start {
		return nil, errors.New("no JSON object in response")
	}
	return []byte(content[start : end+1]), nil
}

type sentimentPayload struct {
	Score            *float64           `json:"score"`
	OverallSentiment *float64           `json:"overallSentiment"` // older prompt wording
	EstimatedRating  *float64           `json:"estimatedRating"`
	Aspects          []string           `json:"aspects"`
	AspectScores     map[string]float64 `json:"aspectScores"`
	Keywords         *domain.Keywords   `json:"keywords"`
	Summary          *string            `json:"summary"`
}

func decodeSentiment(content string) (domain.SentimentResult, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return domain.SentimentResult{}, malformed("sentiment: %w", err)
	}
	var p sentimentPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.SentimentResult{}, malformed("sentiment: %w", err)
	}

	score := p.Score
	if score == nil {
		score = p.OverallSentiment
	}
	switch {
	case score == nil:
		return domain.SentimentResult{}, malformed("sentiment: missing score")
	case !unit(*score):
		return domain.SentimentResult{}, malformed("sentiment: score %v outside [0,1]", *score)
	case p.EstimatedRating == nil:
		return domain.SentimentResult{}, malformed("sentiment: missing estimatedRating")
	case *p.EstimatedRating < 1 || *p.EstimatedRating > 5:
		return domain.SentimentResult{}, malformed("sentiment: estimatedRating %v outside [1,5]", *p.EstimatedRating)
	case p.Aspects == nil:
		return domain.SentimentResult{}, malformed("sentiment: missing aspects")
	case p.AspectScores == nil:
		return domain.SentimentResult{}, malformed("sentiment: missing aspectScores")
	case p.Keywords == nil:
		return domain.SentimentResult{}, malformed("sentiment: missing keywords")
	case p.Summary == nil:
		return domain.SentimentResult{}, malformed("sentiment: missing summary")
	}
	for aspect, s := range p.AspectScores {
		if !unit(s) {
			return domain.SentimentResult{}, malformed("sentiment: aspect %s score %v outside [0,1]", aspect, s)
		}
	}

	kw := *p.Keywords
	if kw.Positive == nil {
		kw.Positive = []string{}
	}
	if kw.Negative == nil {
		kw.Negative = []string{}
	}
	return domain.SentimentResult{
		Score:           *score,
		EstimatedRating: int(math.Round(*p.EstimatedRating)),
		Aspects:         p.Aspects,
		AspectScores:    p.AspectScores,
		Keywords:        kw,
		Summary:         *p.Summary,
	}, nil
}

type insightsPayload struct {
	TopAspects          []domain.AspectScore        `json:"topAspects"`
	BottomAspects       []domain.AspectScore        `json:"bottomAspects"`
	Trends              []domain.Trend              `json:"trends"`
	Recommendations     []domain.Recommendation     `json:"recommendations"`
	Anomalies           []domain.Anomaly            `json:"anomalies"`
	CompetitiveInsights *domain.CompetitiveInsights `json:"competitiveInsights"`
}

func decodeInsights(content string) (domain.InsightBundle, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return domain.InsightBundle{}, malformed("insights: %w", err)
	}
	var p insightsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.InsightBundle{}, malformed("insights: %w", err)
	}
	if err := validateInsights(p); err != nil {
		return domain.InsightBundle{}, malformed("insights: %w", err)
	}

	ci := *p.CompetitiveInsights
	if ci.Strengths == nil {
		ci.Strengths = []string{}
	}
	if ci.Weaknesses == nil {
		ci.Weaknesses = []string{}
	}
	return domain.InsightBundle{
		TopAspects:          p.TopAspects,
		BottomAspects:       p.BottomAspects,
		Trends:              p.Trends,
		Recommendations:     p.Recommendations,
		Anomalies:           p.Anomalies,
		CompetitiveInsights: ci,
	}, nil
}

func validateInsights(p insightsPayload) error {
	switch {
	case p.TopAspects == nil:
		return errors.New("missing topAspects")
	case p.BottomAspects == nil:
		return errors.New("missing bottomAspects")
	case p.Trends == nil:
		return errors.New("missing trends")
	case p.Recommendations == nil:
		return errors.New("missing recommendations")
	case p.Anomalies == nil:
		return errors.New("missing anomalies")
	case p.CompetitiveInsights == nil:
		return errors.New("missing competitiveInsights")
	}
	for _, list := range [][]domain.AspectScore{p.TopAspects, p.BottomAspects} {
		for _, a := range list {
			if a.Aspect == "" || !unit(a.Score) {
				return fmt.Errorf("invalid aspect score %+v", a)
			}
		}
	}
	for _, t := range p.Trends {
		if (t.Type != domain.TrendOverall && t.Type != domain.TrendAspect) || t.Month == "" || t.Message == "" {
			return fmt.Errorf("invalid trend %+v", t)
		}
	}
	for _, r := range p.Recommendations {
		if r.Aspect == "" || r.Action == "" {
			return fmt.Errorf("invalid recommendation %+v", r)
		}
	}
	for _, a := range p.Anomalies {
		if a.Aspect == "" || a.Message == "" {
			return fmt.Errorf("invalid anomaly %+v", a)
		}
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }
