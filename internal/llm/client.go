package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/resilience"
)

var (
	ErrEmptyResponse = errors.New("no response from LLM")
	ErrUnavailable   = errors.New("LLM unavailable")
)

// Result is one completion.
type Result struct {
	Kind Kind
	// Text is the raw completion.
	Text string
	// document is the extracted JSON object for structured kinds.
	document []byte
}

// Document returns the JSON object the model produced, if any.
func (r Result) Document() ([]byte, bool) {
	return r.document, len(r.document) > 0
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client calls the generate endpoint.
type Client struct {
	cfg     config.LLMConfig
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the client's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(logger) }
}

// WithRateLimit caps outbound calls per second. Zero or less disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// NewClient creates a client for cfg.URL.
func NewClient(cfg config.LLMConfig, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "CanvasAI-Backend/1.0").
		SetJSONMarshaler(sonic.ConfigStd.Marshal).
		SetJSONUnmarshaler(sonic.ConfigStd.Unmarshal)

	c := &Client{
		cfg:     cfg,
		resty:   restyClient,
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = resilience.New("ollama", resilience.Settings{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts resilience.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to resilience.State) {
				c.logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}
	c.logger = c.logger.Named("llm")
	return c
}

// Complete renders the prompt for kind, calls the model and extracts the
// JSON document for structured kinds.
func (c *Client) Complete(ctx context.Context, kind Kind, request string) (Result, error) {
	prompt, err := BuildPrompt(kind, request)
	if err != nil {
		return Result{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit: %w", err)
	}

	start := time.Now()
	text, err := resilience.Call(ctx, c.breaker, func(ctx context.Context) (string, error) {
		return c.generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		c.logger.Error("Generation failed",
			zap.String("kind", kind.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return Result{}, err
	}

	res := Result{Kind: kind, Text: text}
	if kind.Structured() {
		if doc, ok := ExtractJSON(text); ok {
			res.document = doc
		} else {
			c.logger.Warn("Completion has no JSON document, falling back to text",
				zap.String("kind", kind.String()),
			)
		}
	}

	c.logger.Debug("Generation complete",
		zap.String("kind", kind.String()),
		zap.Duration("duration", time.Since(start)),
		zap.Int("chars", len(text)),
		zap.Bool("structured", len(res.document) > 0),
	)
	return res, nil
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var (
		result  generateResponse
		failure errorResponse
	)
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:       c.cfg.Model,
			Prompt:      prompt,
			Stream:      false,
			Temperature: c.cfg.Temperature,
		}).
		SetResult(&result).
		SetError(&failure).
		Post(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", c.cfg.URL, err)
	}

	if resp.IsError() {
		msg := strings.TrimSpace(failure.Error)
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return "", fmt.Errorf("LLM returned status %d: %s", resp.StatusCode(), msg)
	}

	if strings.TrimSpace(result.Response) == "" {
		return "", ErrEmptyResponse
	}
	return result.Response, nil
}
