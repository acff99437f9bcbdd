package ranking

import (
	"bytes"
	"cloud-function-discovery/internal/logging"
	"cloud-function-discovery/internal/metrics"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const breakerName = "ranking"

// ErrRateLimited is returned when the outbound budget has no token before the call deadline.
var ErrRateLimited = errors.New("ranking rate limit exceeded")

// Completer sends one system+user prompt pair and returns the raw model text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ServiceError is a non-2xx answer from the ranking service.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	Retryable  bool
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ranking service: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("ranking service: HTTP %d: %s", e.StatusCode, e.Message)
}

// ClientConfig configures ChatClient.
type ClientConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	// RequestsPerMinute is the outbound budget shared by all requests of this instance.
	RequestsPerMinute int
	// BreakerFailures consecutive failures open the breaker for BreakerCooldown.
	BreakerFailures int
	BreakerCooldown time.Duration
	HTTPClient      *http.Client
	Metrics         *metrics.Metrics
}

// ChatClient talks to an OpenAI-compatible chat completions endpoint behind a circuit
// breaker and a token-bucket rate limiter.
type ChatClient struct {
	cfg     ClientConfig
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func NewChatClient(cfg ClientConfig) *ChatClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	m := cfg.Metrics
	m.SetBreakerState(breakerName, 0)
	failures := uint32(cfg.BreakerFailures)

	return &ChatClient{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				// Local throttling and client-side 4xx answers say nothing about the health of the service.
				var se *ServiceError
				return err == nil || errors.Is(err, ErrRateLimited) || (errors.As(err, &se) && !se.Retryable)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				l := logging.WithComponent("ranking")
				l.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
				m.SetBreakerState(name, stateValue(to))
			},
		}),
	}
}

// Model is the configured model name.
func (c *ChatClient) Model() string {
	return c.cfg.Model
}

// BreakerState reports closed, half-open or open.
func (c *ChatClient) BreakerState() string {
	return c.breaker.State().String()
}

func (c *ChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return c.send(ctx, system, user)
	})
}

func (c *ChatClient) send(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:      c.cfg.MaxTokens,
		Temperature:    c.cfg.Temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &ServiceError{
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		}
		var er errorResponse
		if json.Unmarshal(respBody, &er) == nil {
			se.Code, se.Message = er.Error.Code, er.Error.Message
		}
		return "", se
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("ranking service returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
