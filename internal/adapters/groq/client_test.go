package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"review_insights/internal/adapters/groq"
	"review_insights/internal/domain"
)

func completion(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   groq.DefaultModel,
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return b
}

func apiError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"error"}}`))
}

func newClient(t *testing.T, url string) *groq.Client {
	t.Helper()
	cl, err := groq.New(url, "test-key", 100, groq.WithRetry(time.Millisecond, 2)) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

const sentimentJSON = "```json\n" + `{"score": 0.82, "estimatedRating": 4.4, "aspects": ["service"],
 "aspectScores": {"service": 0.9}, "keywords": {"positive": ["friendly"]}, "summary": "Friendly service."}` + "\n```"

func TestClient_AnalyzeSentiment(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completion(sentimentJSON))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := cl.AnalyzeSentiment(ctx, "Friendly service")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Score != 0.82 || res.EstimatedRating != 4 || res.AspectScores["service"] != 0.9 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Keywords.Negative == nil || len(res.Keywords.Positive) != 1 {
		t.Fatalf("unexpected keywords: %+v", res.Keywords)
	}
	if body["model"] != groq.DefaultModel {
		t.Fatalf("model = %v", body["model"])
	}
	if msgs, _ := body["messages"].([]any); len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", body["messages"])
	}
}

func TestClient_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			apiError(w, http.StatusInternalServerError)
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(completion(sentimentJSON))
		}
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	if _, err := cl.AnalyzeSentiment(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_RateLimited(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		apiError(w, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	_, err := cl.GenerateInsights(context.Background(), []domain.ReviewDigest{{ID: "r1"}})
	af, ok := domain.AsAnalysisFailure(err)
	if !ok || af.Kind != domain.FailureRateLimited || af.Status != http.StatusTooManyRequests {
		t.Fatalf("expected rate-limited failure, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected initial call plus 2 retries, got %d", hits)
	}
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		apiError(w, http.StatusBadRequest)
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	_, err := cl.AnalyzeSentiment(context.Background(), "x")
	af, ok := domain.AsAnalysisFailure(err)
	if !ok || af.Kind != domain.FailureUpstream || af.Status != http.StatusBadRequest {
		t.Fatalf("expected upstream failure, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected a single call, got %d", hits)
	}
}

func TestClient_MalformedContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completion(`{"score": 0.5, "aspects": []}`))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	_, err := cl.AnalyzeSentiment(context.Background(), "x")
	af, ok := domain.AsAnalysisFailure(err)
	if !ok || af.Kind != domain.FailureMalformed {
		t.Fatalf("expected malformed-response, got %v", err)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	cl := newClient(t, url)
	_, err := cl.AnalyzeSentiment(context.Background(), "x")
	af, ok := domain.AsAnalysisFailure(err)
	if !ok || af.Kind != domain.FailureTransport {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestClient_GenerateInsights(t *testing.T) {
	var prompt string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) == 2 {
			prompt = req.Messages[1].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completion(`Here you go: {"topAspects": [{"aspect": "staff", "score": 0.9}], "bottomAspects": [],
 "trends": [{"type": "overall", "month": "2024-02", "change": 0.1, "message": "Overall sentiment increased by 10.0% in Feb 2024"}],
 "recommendations": [], "anomalies": [], "competitiveInsights": {"strengths": ["Setting"]}}`))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	b, err := cl.GenerateInsights(context.Background(), []domain.ReviewDigest{{ID: "r-7", Rating: 5, Date: "2024-02-01"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(b.TopAspects) != 1 || b.TopAspects[0].Aspect != "staff" || len(b.Trends) != 1 {
		t.Fatalf("unexpected bundle: %+v", b)
	}
	if b.CompetitiveInsights.Weaknesses == nil || b.CompetitiveInsights.Strengths[0] != "Setting" {
		t.Fatalf("unexpected competitive insights: %+v", b.CompetitiveInsights)
	}
	if !strings.Contains(prompt, `"id":"r-7"`) || !strings.Contains(prompt, "summary of 1 hotel reviews") {
		t.Fatalf("prompt does not carry the digests: %s", prompt)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := groq.New("", "", 1); err == nil {
		t.Fatalf("expected error without API key")
	}
}
