package domain

// Review is a single guest review together with its sentiment scores.
// Reviews are treated as immutable once stored.
type Review struct {
	ID                string             `json:"id"`
	Text              string             `json:"text"`
	Date              string             `json:"date"` // YYYY-MM-DD
	OverallSentiment  float64            `json:"overallSentiment"`
	Rating            int                `json:"rating"`
	SentimentByAspect map[string]float64 `json:"sentimentByAspect"`
	TripType          string             `json:"tripType"`
	Country           string             `json:"country"`
	Reviewer          string             `json:"reviewer"`
	Keywords          *Keywords          `json:"keywords,omitempty"`
	Summary           string             `json:"summary,omitempty"`
}

type Keywords struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// DefaultTripType is used when a review arrives without one.
const DefaultTripType = "Leisure"

// SentimentResult is the fixed-shape outcome of analyzing one review text,
// produced either by the keyword fallback or by the external gateway.
type SentimentResult struct {
	Score           float64            `json:"score"`
	EstimatedRating int                `json:"estimatedRating"`
	Aspects         []string           `json:"aspects"`
	AspectScores    map[string]float64 `json:"aspectScores"`
	Keywords        Keywords           `json:"keywords"`
	Summary         string             `json:"summary"`
	Label           string             `json:"label"`
	Source          string             `json:"source,omitempty"` // local|remote|local-fallback
}

// ReviewDigest is the compact per-review shape sent to the gateway for
// batch insight generation.
type ReviewDigest struct {
	ID               string             `json:"id"`
	OverallSentiment float64            `json:"overallSentiment"`
	Rating           int                `json:"rating"`
	Aspects          []string           `json:"aspects"`
	AspectScores     map[string]float64 `json:"aspectScores"`
	Date             string             `json:"date"`
	TripType         string             `json:"tripType"`
}

// NewReview is the user-entered part of a review before analysis.
type NewReview struct {
	Text     string `json:"text"`
	Date     string `json:"date,omitempty"`
	TripType string `json:"tripType,omitempty"`
	Country  string `json:"country,omitempty"`
	Reviewer string `json:"reviewer,omitempty"`
}

type ReviewFilter struct {
	Search   string
	Rating   int // 0 = any
	Country  string
	TripType string
}

type ReviewList struct {
	Items     []Review `json:"items"`
	Total     int      `json:"total"`
	Countries []string `json:"countries"`
	TripTypes []string `json:"tripTypes"`
}
