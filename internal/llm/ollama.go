package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/bogatovam/wealth-search-api/internal/config"
)

const expansionPrompt = `You expand full-text search queries.
For the query below return a JSON object with exactly three string arrays:
"synonyms", "related" and "narrower". Return JSON only, no prose.

Query: %s`

const summaryPrompt = `Write a short summary (3 sentences or fewer) of the
following document. Return the summary text only.

%s`

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

// generateResponse is the Ollama /api/generate response body.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// OllamaClient talks to an Ollama server over HTTP. Every call is bounded by
// the configured timeout and goes through a retry policy and a circuit
// breaker, so an unhealthy model server degrades into fast typed failures
// instead of piled-up requests.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	maxRetries uint
	breaker    *gobreaker.CircuitBreaker[string]
}

var _ Client = (*OllamaClient)(nil)

// NewOllamaClient builds a client from configuration.
func NewOllamaClient(cfg config.OllamaConfig) *OllamaClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "ollama",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &OllamaClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxRetries: uint(cfg.MaxRetries),
		breaker:    breaker,
	}
}

// ExpandQuery requests a structured JSON expansion for the query.
func (c *OllamaClient) ExpandQuery(ctx context.Context, query string) (*ExpansionResult, error) {
	raw, err := c.generate(ctx, generateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(expansionPrompt, query),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, err
	}

	var result ExpansionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("parse expansion response: %w", err)
	}
	return &result, nil
}

// Summarize requests a plain-text summary of the content.
func (c *OllamaClient) Summarize(ctx context.Context, content string) (string, error) {
	raw, err := c.generate(ctx, generateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(summaryPrompt, content),
		Stream: false,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// generate runs one completion through the breaker and retry policy.
func (c *OllamaClient) generate(ctx context.Context, req generateRequest) (string, error) {
	out, err := c.breaker.Execute(func() (string, error) {
		return backoff.Retry(ctx, func() (string, error) {
			return c.doGenerate(ctx, req)
		},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(c.maxRetries+1),
		)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

func (c *OllamaClient) doGenerate(ctx context.Context, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("ollama status %d: %s", resp.StatusCode, string(msg))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return gen.Response, nil
}
