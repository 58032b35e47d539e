package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-70b-8192"

	systemPrompt = "You are an AI assistant that specializes in sentiment analysis and hospitality insights. " +
		"Provide detailed, accurate, and helpful analysis."
)

// Client is an domain.AnalysisGateway backed by an OpenAI-compatible chat
// completion API. Every error it returns is a *domain.AnalysisFailure.
type Client struct {
	api        openai.Client
	model      string
	rl         *rate.Limiter
	retryBase  time.Duration
	maxRetries uint64
}

type Option func(*settings)

type settings struct {
	hc         *http.Client
	model      string
	retryBase  time.Duration
	maxRetries uint64
}

func WithHTTPClient(hc *http.Client) Option { return func(s *settings) { s.hc = hc } }

func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithRetry sets the first backoff interval and the number of retries after
// the initial attempt.
func WithRetry(base time.Duration, retries uint64) Option {
	return func(s *settings) {
		s.retryBase = base
		s.maxRetries = retries
	}
}

func New(base, key string, rps int, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if rps <= 0 {
		rps = 5
	}
	s := settings{
		hc:         &http.Client{Timeout: 60 * time.Second},
		model:      DefaultModel,
		retryBase:  500 * time.Millisecond,
		maxRetries: 3,
	}
	for _, o := range opts {
		o(&s)
	}
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(key),
			option.WithBaseURL(base),
			option.WithHTTPClient(s.hc),
			option.WithMaxRetries(0), // retries are ours
		),
		model:      s.model,
		rl:         rate.NewLimiter(rate.Limit(rps), rps),
		retryBase:  s.retryBase,
		maxRetries: s.maxRetries,
	}, nil
}

func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	content, err := c.complete(ctx, "sentiment", sentimentPrompt(text), 0.3, 1024)
	if err != nil {
		return domain.SentimentResult{}, err
	}
	return decodeSentiment(content)
}

func (c *Client) GenerateInsights(ctx context.Context, digests []domain.ReviewDigest) (domain.InsightBundle, error) {
	prompt, err := insightsPrompt(digests)
	if err != nil {
		return domain.InsightBundle{}, &domain.AnalysisFailure{Kind: domain.FailureTransport, Err: err}
	}
	content, err := c.complete(ctx, "insights", prompt, 0.4, 2048)
	if err != nil {
		return domain.InsightBundle{}, err
	}
	return decodeInsights(content)
}

// complete runs one chat completion with client-side rate limiting and
// exponential backoff. Rate-limited, 5xx and transport failures are retried;
// other upstream errors and empty responses are not.
func (c *Client) complete(ctx context.Context, endpoint, prompt string, temperature float64, maxTokens int64) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", &domain.AnalysisFailure{Kind: domain.FailureTransport, Err: err}
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	}

	var content string
	attempt := 0
	op := func() error {
		attempt++
		start := time.Now()
		resp, err := c.api.Chat.Completions.New(ctx, params)
		observability.ObserveExternal("groq", endpoint, statusOf(err), time.Since(start))
		if err != nil {
			f := classify(err)
			log.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", attempt).
				Str("kind", string(f.Kind)).Msg("analysis request failed")
			if retryable(f) {
				return f
			}
			return backoff.Permanent(f)
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(&domain.AnalysisFailure{
				Kind: domain.FailureMalformed, Status: http.StatusOK, Err: errors.New("no choices in response"),
			})
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryBase
	bo.MaxElapsedTime = 2 * time.Minute
	bo.Reset()
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
	if err != nil {
		if _, ok := domain.AsAnalysisFailure(err); ok {
			return "", err
		}
		return "", &domain.AnalysisFailure{Kind: domain.FailureTransport, Err: err}
	}
	return content, nil
}

func classify(err error) *domain.AnalysisFailure {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		kind := domain.FailureUpstream
		if apierr.StatusCode == http.StatusTooManyRequests {
			kind = domain.FailureRateLimited
		}
		return &domain.AnalysisFailure{Kind: kind, Status: apierr.StatusCode, Err: err}
	}
	return &domain.AnalysisFailure{Kind: domain.FailureTransport, Err: err}
}

func retryable(f *domain.AnalysisFailure) bool {
	switch f.Kind {
	case domain.FailureTransport, domain.FailureRateLimited:
		return true
	case domain.FailureUpstream:
		return f.Status >= 500
	default:
		return false
	}
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode
	}
	return 0
}
