package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/metrics"
)

// DefaultAPIKeyEnv is the environment variable holding the API key.
const DefaultAPIKeyEnv = "OPENAI_API_KEY"

// Generator is a chat-completion client for OpenAI-compatible APIs.
// The API key is read from the environment on every call.
type Generator struct {
	baseURL    string
	model      string
	apiKeyEnv  string
	provider   string
	httpClient *http.Client
	limiter    *rate.Limiter
	lookupEnv  func(string) (string, bool)
	logger     *zap.Logger
}

// Config holds the LLM provider settings.
type Config struct {
	BaseURL   string
	Model     string
	APIKeyEnv string
	Provider  string
	// MaxRPS throttles outbound calls; 0 disables throttling.
	MaxRPS     float64
	Burst      int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewGenerator creates an OpenAI-compatible generator.
func NewGenerator(cfg *Config) *Generator {
	g := &Generator{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		apiKeyEnv:  cfg.APIKeyEnv,
		provider:   cfg.Provider,
		httpClient: cfg.HTTPClient,
		lookupEnv:  os.LookupEnv,
		logger:     cfg.Logger,
	}
	if g.apiKeyEnv == "" {
		g.apiKeyEnv = DefaultAPIKeyEnv
	}
	if g.provider == "" {
		g.provider = "openai"
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if cfg.MaxRPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.MaxRPS), burst)
	}
	return g
}

// Generate implements domain.Generator with a JSON-only, minimal-temperature completion.
func (g *Generator) Generate(ctx context.Context, p domain.Prompt) (string, error) {
	client, err := g.client()
	if err != nil {
		g.recordError("missing_credential")
		return "", err
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.recordError("throttled")
			return "", fmt.Errorf("outbound throttle: %w: %w", domain.ErrUpstreamRateLimited, err)
		}
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
		// Zero would be dropped by omitempty and fall back to the vendor default.
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()

	resp, err := client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		mapped := parseAPIError(err)
		if errors.Is(mapped, domain.ErrUpstreamRateLimited) {
			g.recordError("rate_limited")
		} else {
			g.recordError("api_error")
		}
		g.logger.Debug("Chat completion failed",
			zap.String("model", g.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", mapped
	}

	if len(resp.Choices) == 0 {
		g.recordError("empty_response")
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGeneratorFailed)
	}

	metrics.LLMRequestsTotal.WithLabelValues(g.provider, g.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(g.provider, g.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(g.provider, g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(g.provider, g.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.LLMTokensTotal.WithLabelValues(g.provider, g.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	client, err := g.client()
	if err != nil {
		return err
	}
	if _, err := client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.model }

func (g *Generator) client() (*openai.Client, error) {
	key, ok := g.lookupEnv(g.apiKeyEnv)
	if !ok || strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%s is not set: %w", g.apiKeyEnv, domain.ErrMissingCredential)
	}

	cfg := openai.DefaultConfig(key)
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	if g.httpClient != nil {
		cfg.HTTPClient = g.httpClient
	}
	return openai.NewClientWithConfig(cfg), nil
}

func (g *Generator) recordError(errorType string) {
	metrics.LLMRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
	metrics.LLMErrorsTotal.WithLabelValues(g.provider, g.model, errorType).Inc()
}

// parseAPIError extracts a human-readable error from the API response.
// HTTP 429 maps to domain.ErrUpstreamRateLimited, everything else to domain.ErrGeneratorFailed.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrap := sentinelFor(reqErr.HTTPStatusCode)
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, sentinelFor(apiErr.HTTPStatusCode))
	}

	return fmt.Errorf("completion request failed: %w: %w", domain.ErrGeneratorFailed, err)
}

func sentinelFor(status int) error {
	if status == http.StatusTooManyRequests {
		return domain.ErrUpstreamRateLimited
	}
	return domain.ErrGeneratorFailed
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
