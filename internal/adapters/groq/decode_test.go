package groq

import (
	"testing"

	"review_insights/internal/domain"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{`Sure! {"a":1} Hope this helps.`, `{"a":1}`},
	}
	for _, c := range cases {
		got, err := extractJSON(c.in)
		if err != nil || string(got) != c.want {
			t.Fatalf("extractJSON(%q) = %q, %v", c.in, got, err)
		}
	}
	for _, in := range []string{"", "no json here", "} backwards {"} {
		if _, err := extractJSON(in); err == nil {
			t.Fatalf("extractJSON(%q): expected error", in)
		}
	}
}

func TestDecodeSentiment_Validation(t *testing.T) {
	bad := []string{
		`{"estimatedRating": 3, "aspects": [], "aspectScores": {}, "keywords": {}, "summary": ""}`,
		`{"score": 1.4, "estimatedRating": 3, "aspects": [], "aspectScores": {}, "keywords": {}, "summary": ""}`,
		`{"score": 0.4, "estimatedRating": 9, "aspects": [], "aspectScores": {}, "keywords": {}, "summary": ""}`,
		`{"score": 0.4, "estimatedRating": 3, "aspectScores": {}, "keywords": {}, "summary": ""}`,
		`{"score": 0.4, "estimatedRating": 3, "aspects": [], "aspectScores": {"room": -1}, "keywords": {}, "summary": ""}`,
		`{"score": 0.4, "estimatedRating": 3, "aspects": [], "aspectScores": {}, "summary": ""}`,
		`{"score": 0.4, "estimatedRating": 3, "aspects": [], "aspectScores": {}, "keywords": {}}`,
		`{"score": "high"}`,
	}
	for _, in := range bad {
		_, err := decodeSentiment(in)
		af, ok := domain.AsAnalysisFailure(err)
		if !ok || af.Kind != domain.FailureMalformed {
			t.Fatalf("decodeSentiment(%s): expected malformed-response, got %v", in, err)
		}
	}

	res, err := decodeSentiment(`{"overallSentiment": 0.2, "estimatedRating": 1, "aspects": [], "aspectScores": {}, "keywords": {"negative": ["rude"]}, "summary": "Rude."}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Score != 0.2 || res.EstimatedRating != 1 || res.Keywords.Positive == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDecodeInsights_Validation(t *testing.T) {
	full := `{"topAspects": [], "bottomAspects": [], "trends": [], "recommendations": [], "anomalies": [], "competitiveInsights": {}}`
	if _, err := decodeInsights(full); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	bad := []string{
		`{"topAspects": [], "bottomAspects": [], "trends": [], "recommendations": [], "anomalies": []}`,
		`{"bottomAspects": [], "trends": [], "recommendations": [], "anomalies": [], "competitiveInsights": {}}`,
		`{"topAspects": [{"aspect": "", "score": 0.5}], "bottomAspects": [], "trends": [], "recommendations": [], "anomalies": [], "competitiveInsights": {}}`,
		`{"topAspects": [], "bottomAspects": [], "trends": [{"type": "weekly", "month": "2024-01", "message": "x"}], "recommendations": [], "anomalies": [], "competitiveInsights": {}}`,
		`{"topAspects": [], "bottomAspects": [], "trends": [], "recommendations": [{"aspect": "food"}], "anomalies": [], "competitiveInsights": {}}`,
		`{"topAspects": "service"}`,
	}
	for _, in := range bad {
		_, err := decodeInsights(in)
		af, ok := domain.AsAnalysisFailure(err)
		if !ok || af.Kind != domain.FailureMalformed {
			t.Fatalf("decodeInsights(%s): expected malformed-response, got %v", in, err)
		}
	}
}
