package groq

import (
	"encoding/json"
	"fmt"

	"review_insights/internal/domain"
)

func sentimentPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following hotel review and provide a detailed sentiment analysis:

Review: %q

Respond with a single JSON object containing:
- score: overall sentiment from 0 (completely negative) to 1 (completely positive)
- estimatedRating: an estimated star rating from 1 to 5
- aspects: array of identified aspects (e.g. service, room, food)
- aspectScores: object mapping each aspect to a score from 0 to 1
- keywords: object with "positive" and "negative" arrays of words taken from the review
- summary: a brief summary of the review

Example:
{"score": 0.85, "estimatedRating": 4, "aspects": ["service", "room"], "aspectScores": {"service": 0.9, "room": 0.8}, "keywords": {"positive": ["amazing"], "negative": ["expensive"]}, "summary": "The guest had an excellent stay, though found the pricing high."}

Only return the JSON, nothing else.`, text)
}

func insightsPrompt(digests []domain.ReviewDigest) (string, error) {
	b, err := json.Marshal(digests)
	if err != nil {
		return "", fmt.Errorf("encode review digests: %w", err)
	}
	return fmt.Sprintf(`Based on the following summary of %d hotel reviews, provide business insights:

%s

Respond with a single JSON object containing:
- topAspects: array of the top 3 performing aspects with scores
- bottomAspects: array of the bottom 3 performing aspects with scores
- trends: array of sentiment trends over time
- recommendations: array of actionable recommendations for weak aspects
- anomalies: array of reviews whose aspect scores deviate sharply from that aspect's average
- competitiveInsights: strengths and weaknesses compared to competitors

Example:
{"topAspects": [{"aspect": "service", "score": 0.92}], "bottomAspects": [{"aspect": "value", "score": 0.65}], "trends": [{"type": "overall", "month": "2023-12", "change": 0.06, "message": "Overall sentiment increased by 6.0%% in Dec 2023"}], "recommendations": [{"aspect": "food", "score": 0.74, "action": "Review restaurant menus and consider bringing in a consulting chef to refresh offerings."}], "anomalies": [{"reviewId": "r-12", "date": "2024-02-05", "aspect": "service", "score": 0.45, "averageScore": 0.82, "message": "Unexpected low rating for service"}], "competitiveInsights": {"strengths": ["Natural setting rated above competitors"], "weaknesses": ["Value perception lags similar properties"]}}

Only return the JSON, nothing else.`, len(digests), b), nil
}
