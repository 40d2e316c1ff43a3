// Package llm answers product-information questions with an OpenAI-compatible
// chat completion backend such as Ollama.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/shelfassist/backend/internal/domain"
)

const (
	maxAttempts    = 3
	defaultBackoff = 500 * time.Millisecond
	systemPrompt   = "You are a helpful retail assistant. Answer ONLY product information questions. NEVER provide location information."
)

// Config holds the text-generation backend settings
type Config struct {
	BaseURL           string
	APIKey            string
	Model             string
	MaxTokens         int
	Temperature       float32
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client handles communication with the chat completion API
type Client struct {
	api         *openai.Client
	config      Config
	rateLimiter *rate.Limiter
	backoff     time.Duration
	logger      zerolog.Logger
}

// NewClient creates a new chat completion client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.APIKey == "" {
		// Ollama ignores the key but the client library sends one
		cfg.APIKey = "ollama"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 150
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		api:         openai.NewClientWithConfig(clientConfig),
		config:      cfg,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		backoff:     defaultBackoff,
		logger:      logger.With().Str("component", "llm").Str("model", cfg.Model).Logger(),
	}
}

// GenerateAnswer asks the model a product-information question and scores the reply
func (c *Client) GenerateAnswer(ctx context.Context, req domain.AnswerRequest) (*domain.InfoAnswer, error) {
	questionType := req.QuestionType
	if questionType == "" {
		questionType = domain.QuestionGeneral
	}

	prompt := BuildPrompt(req.Product, req.Question, questionType, req.Attributes)

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer, confidence := ParseAnswer(raw)
	return &domain.InfoAnswer{
		NormalizedProduct: req.Product,
		QuestionType:      questionType,
		Answer:            answer,
		Caveats:           Caveats(answer, confidence, questionType, req.Attributes),
		Confidence:        confidence,
		Source:            "LLM",
	}, nil
}

// Available reports whether the backend answers a model listing
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.api.ListModels(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("LLM backend health check failed")
		return false
	}
	return true
}

// complete sends one chat completion, retrying transient failures
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("Chat completion failed")
			if !retryable(err) {
				return "", lastErr
			}
			if err := c.sleep(ctx, attempt); err != nil {
				return "", lastErr
			}
			continue
		}

		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: empty response", domain.ErrLLMFailure)
		}

		c.logger.Debug().
			Int("attempt", attempt).
			Dur("latency", time.Since(start)).
			Int("tokens", resp.Usage.TotalTokens).
			Msg("Chat completion succeeded")
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	c.logger.Error().Err(lastErr).Msg("All chat completion attempts failed")
	return "", lastErr
}

// sleep waits attempt*backoff, returning early when ctx is done
func (c *Client) sleep(ctx context.Context, attempt int) error {
	timer := time.NewTimer(time.Duration(attempt) * c.backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryable reports whether a failed call may succeed on retry. Client errors
// other than 429 are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return true
}
