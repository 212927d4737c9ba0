package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/code-yaar/assistant-gateway/internal/config"
	"github.com/code-yaar/assistant-gateway/internal/types"
)

// Failure taxonomy surfaced to the caller. Checked with errors.Is; never
// retried automatically.
var (
	// ErrBusy maps an upstream 429.
	ErrBusy = errors.New("upstream is busy")
	// ErrBillingExhausted maps an upstream 402.
	ErrBillingExhausted = errors.New("upstream billing limit reached")
	// ErrUnavailable covers transport failures, circuit-open, and any other
	// non-2xx upstream status.
	ErrUnavailable = errors.New("upstream unavailable")
)

// Sampling temperatures by request intent. Code-oriented modes run cold.
const (
	TemperatureCode   = 0.2
	TemperatureMentor = 0.7
)

// Client relays composed conversations to the OpenAI-style chat-completion
// gateway. One HTTP call per request, no retries.
type Client struct {
	cfg     func() config.UpstreamConfig
	models  func() *config.ModelTable
	client  *http.Client
	breaker *Breaker
}

func NewClient(cfg func() config.UpstreamConfig, models func() *config.ModelTable) *Client {
	c := cfg()
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		models: models,
		client: &http.Client{
			// Hard ceiling on the whole upstream exchange, stream reads
			// included.
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		breaker: NewBreaker(c.CircuitBreaker.FailureThreshold, c.CircuitBreaker.RecoveryProbeInterval),
	}
}

// ResolveModel translates a client model alias through the mapping table.
func (c *Client) ResolveModel(alias string) string {
	return c.models().Resolve(alias)
}

// Breaker exposes the circuit breaker, mainly for tests.
func (c *Client) Breaker() *Breaker {
	return c.breaker
}

type chatRequestBody struct {
	Model       string          `json:"model"`
	Messages    []types.Message `json:"messages"`
	Stream      bool            `json:"stream,omitempty"`
	Temperature float64         `json:"temperature"`
}

type chatResponseBody struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Stream issues a streaming chat-completion call. On success the caller owns
// the response body and must close it; the body is a live SSE stream. The
// request carries ctx, so a client disconnect aborts the upstream read.
func (c *Client) Stream(ctx context.Context, model string, messages []types.Message, temperature float64) (*http.Response, error) {
	resp, err := c.send(ctx, model, messages, temperature, true)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Complete issues a non-streaming call and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, model string, messages []types.Message, temperature float64) (string, error) {
	resp, err := c.send(ctx, model, messages, temperature, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var parsed chatResponseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) send(ctx context.Context, model string, messages []types.Message, temperature float64, stream bool) (*http.Response, error) {
	if !c.breaker.Allow() {
		return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
	}

	cfg := c.cfg()
	payload, err := json.Marshal(chatRequestBody{
		Model:       model,
		Messages:    messages,
		Stream:      stream,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	url := cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, c.mapStatus(resp.StatusCode, body)
	}

	c.breaker.RecordSuccess()
	return resp, nil
}

// mapStatus translates an upstream HTTP failure to the taxonomy.
func (c *Client) mapStatus(status int, body []byte) error {
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status 429", ErrBusy)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: status 402", ErrBillingExhausted)
	default:
		c.breaker.RecordFailure()
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, status, bytes.TrimSpace(body))
	}
}
