package analysis

import "strings"

// Vocabulary holds the keyword lists used by the keyword analyzer and the
// aspect extractor. Values are copied on construction, so a Vocabulary can be
// shared freely once built.
type Vocabulary struct {
	Aspects  []string
	Positive []string
	Negative []string
}

// DefaultVocabulary returns the hospitality vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Aspects: []string{
			"service", "room", "staff", "food", "restaurant", "breakfast",
			"amenities", "cleanliness", "location", "value", "price",
			"pool", "spa", "bed", "bathroom", "view", "ambiance", "activities",
		},
		Positive: []string{
			"amazing", "excellent", "great", "good", "fantastic", "wonderful",
			"beautiful", "exceptional", "perfect", "incredible", "lovely",
			"enjoyed", "clean", "comfortable", "friendly", "helpful", "professional",
			"recommend", "impressive", "delicious", "spacious", "stunning",
		},
		Negative: []string{
			"poor", "bad", "terrible", "awful", "horrible", "disappointing",
			"dirty", "uncomfortable", "unfriendly", "unhelpful", "unprofessional",
			"expensive", "overpriced", "small", "noisy", "broken", "slow",
			"rude", "mediocre", "average", "never",
		},
	}
}

// normalize lower-cases and de-duplicates every list, keeping first-seen order.
func (v Vocabulary) normalize() Vocabulary {
	return Vocabulary{
		Aspects:  normalizeWords(v.Aspects),
		Positive: normalizeWords(v.Positive),
		Negative: normalizeWords(v.Negative),
	}
}

func normalizeWords(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
