package analysis

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"review_insights/internal/domain"
)

const (
	minKeywordScore = 0.1
	maxKeywordScore = 0.9
	neutralScore    = 0.5
	// characters taken on each side of an aspect mention
	aspectWindow = 10
)

var wordRE = regexp.MustCompile(`\w+`)

// KeywordAnalyzer is the local sentiment fallback: it scores text by counting
// positive and negative keyword hits.
type KeywordAnalyzer struct {
	extractor *AspectExtractor
	positive  map[string]struct{}
	negative  map[string]struct{}
}

func NewKeywordAnalyzer(v Vocabulary) *KeywordAnalyzer {
	v = v.normalize()
	return &KeywordAnalyzer{
		extractor: NewAspectExtractor(v.Aspects),
		positive:  wordSet(v.Positive),
		negative:  wordSet(v.Negative),
	}
}

// Extractor exposes the aspect extractor built from the same vocabulary.
func (a *KeywordAnalyzer) Extractor() *AspectExtractor { return a.extractor }

// Analyze never fails; text without keyword hits scores 0.5.
func (a *KeywordAnalyzer) Analyze(text string) domain.SentimentResult {
	lower := strings.ToLower(text)
	words := wordRE.FindAllString(lower, -1)

	pos := make([]string, 0, 4)
	neg := make([]string, 0, 4)
	for _, w := range words {
		if _, ok := a.positive[w]; ok {
			pos = append(pos, w)
		}
		if _, ok := a.negative[w]; ok {
			neg = append(neg, w)
		}
	}
	score := ratioScore(len(pos), len(neg), neutralScore)

	aspects := a.extractor.Extract(text)
	aspectScores := make(map[string]float64, len(aspects))
	runes := []rune(lower)
	for _, aspect := range aspects {
		aspectScores[aspect] = a.aspectScore(lower, runes, aspect, score)
	}

	rating := int(math.Round(score * 5))
	rating = max(1, min(5, rating))

	return domain.SentimentResult{
		Score:           round(score, 2),
		EstimatedRating: rating,
		Aspects:         aspects,
		AspectScores:    aspectScores,
		Keywords:        domain.Keywords{Positive: pos, Negative: neg},
		Summary:         summarize(score, aspects, aspectScores),
		Label:           SentimentLabel(score),
		Source:          SourceLocal,
	}
}

// aspectScore counts keyword hits in a character window around the first
// occurrence of aspect; without hits the overall score is inherited.
func (a *KeywordAnalyzer) aspectScore(lower string, runes []rune, aspect string, overall float64) float64 {
	idx := strings.Index(lower, aspect)
	if idx < 0 {
		return overall
	}
	at := utf8.RuneCountInString(lower[:idx])
	start := max(0, at-aspectWindow)
	end := min(len(runes), at+utf8.RuneCountInString(aspect)+aspectWindow)

	var pos, neg int
	for _, w := range wordRE.FindAllString(string(runes[start:end]), -1) {
		if _, ok := a.positive[w]; ok {
			pos++
		}
		if _, ok := a.negative[w]; ok {
			neg++
		}
	}
	return ratioScore(pos, neg, overall)
}

// ratioScore returns pos/(pos+neg) clamped to [0.1, 0.9], or def when there
// are no hits at all.
func ratioScore(pos, neg int, def float64) float64 {
	if pos == 0 && neg == 0 {
		return def
	}
	s := float64(pos) / float64(pos+neg)
	return math.Max(minKeywordScore, math.Min(maxKeywordScore, s))
}

// SentimentLabel buckets a 0..1 score into a display label.
func SentimentLabel(score float64) string {
	switch {
	case score >= 0.8:
		return "Very Positive"
	case score >= 0.6:
		return "Positive"
	case score >= 0.4:
		return "Neutral"
	case score >= 0.2:
		return "Negative"
	default:
		return "Very Negative"
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
