package analysis

import "regexp"

// AspectExtractor detects which vocabulary aspects a text mentions.
type AspectExtractor struct {
	aspects  []string
	patterns []*regexp.Regexp
}

func NewAspectExtractor(aspects []string) *AspectExtractor {
	aspects = normalizeWords(aspects)
	e := &AspectExtractor{
		aspects:  aspects,
		patterns: make([]*regexp.Regexp, len(aspects)),
	}
	for i, a := range aspects {
		e.patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(a) + `\b`)
	}
	return e
}

// Extract returns the mentioned aspects in vocabulary order.
func (e *AspectExtractor) Extract(text string) []string {
	out := make([]string, 0, 4)
	for i, p := range e.patterns {
		if p.MatchString(text) {
			out = append(out, e.aspects[i])
		}
	}
	return out
}

// Aspects returns a copy of the configured vocabulary.
func (e *AspectExtractor) Aspects() []string {
	return append([]string(nil), e.aspects...)
}
