package domain

// DashboardMetrics is the chart-ready fold of a review collection.
type DashboardMetrics struct {
	OverallSentiment     string            `json:"overallSentiment"` // 2 decimals
	AverageRating        string            `json:"averageRating"`    // 1 decimal
	ReviewCount          int               `json:"reviewCount"`
	MonthlyRollups       []MonthlyRollup   `json:"monthlyRollups"`
	AspectAggregates     []AspectAggregate `json:"aspectAggregates"`
	TripTypeDistribution []CategoryCount   `json:"tripTypeDistribution"`
	RatingDistribution   []RatingCount     `json:"ratingDistribution"`
}

type MonthlyRollup struct {
	Month     string  `json:"month"` // YYYY-MM
	Reviews   int     `json:"reviews"`
	Sentiment float64 `json:"sentiment"`
	Rating    float64 `json:"rating"`
}

type AspectAggregate struct {
	Aspect  string  `json:"aspect"`
	Score   float64 `json:"score"`
	Reviews int     `json:"reviews"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// InsightBundle is the shape shared by the local insight algorithm and the
// external gateway.
type InsightBundle struct {
	TopAspects          []AspectScore       `json:"topAspects"`
	BottomAspects       []AspectScore       `json:"bottomAspects"`
	Trends              []Trend             `json:"trends"`
	Recommendations     []Recommendation    `json:"recommendations"`
	Anomalies           []Anomaly           `json:"anomalies"`
	CompetitiveInsights CompetitiveInsights `json:"competitiveInsights"`
	Source              string              `json:"source,omitempty"`
}

type AspectScore struct {
	Aspect string  `json:"aspect"`
	Score  float64 `json:"score"`
}

const (
	TrendOverall = "overall"
	TrendAspect  = "aspect"
)

type Trend struct {
	Type    string  `json:"type"`
	Month   string  `json:"month"`
	Aspect  string  `json:"aspect,omitempty"`
	Change  float64 `json:"change"`
	Message string  `json:"message"`
}

type Anomaly struct {
	ReviewID     string  `json:"reviewId,omitempty"`
	Date         string  `json:"date"`
	Aspect       string  `json:"aspect"`
	Score        float64 `json:"score"`
	AverageScore float64 `json:"averageScore"`
	Message      string  `json:"message"`
}

type Recommendation struct {
	Aspect string  `json:"aspect"`
	Score  float64 `json:"score"`
	Action string  `json:"action"`
}

type CompetitiveInsights struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}
