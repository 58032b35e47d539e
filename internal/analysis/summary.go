package analysis

import "strings"

func sentimentPhrase(score float64) string {
	switch {
	case score >= 0.8:
		return "extremely positive"
	case score >= 0.6:
		return "positive"
	case score <= 0.2:
		return "very negative"
	case score <= 0.4:
		return "negative"
	default:
		return "neutral"
	}
}

// summarize builds the one-paragraph review summary. aspects fixes the
// iteration order; on equal scores the earlier aspect wins.
func summarize(score float64, aspects []string, scores map[string]float64) string {
	var b strings.Builder
	b.WriteString("The review is generally ")
	b.WriteString(sentimentPhrase(score))
	b.WriteString(".")

	if len(aspects) == 0 {
		return b.String()
	}
	best, worst := aspects[0], aspects[0]
	for _, a := range aspects[1:] {
		if scores[a] > scores[best] {
			best = a
		}
		if scores[a] < scores[worst] {
			worst = a
		}
	}
	if scores[best] >= 0.6 {
		b.WriteString(" The guest particularly appreciated the " + best + ".")
	}
	if scores[worst] <= 0.4 {
		b.WriteString(" However, there were concerns about the " + worst + ".")
	}
	return b.String()
}
