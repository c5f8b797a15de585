package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/troikatech/kisan-voicebot/pkg/circuitbreaker"
	"github.com/troikatech/kisan-voicebot/pkg/metrics"
	"github.com/troikatech/kisan-voicebot/pkg/retry"
)

// HTTPClient wraps http.Client with retry and circuit breaker
type HTTPClient struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	serviceName    string
	headers        http.Header
}

// NewHTTPClient creates a new HTTP client with retry and circuit breaker
func NewHTTPClient(serviceName string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:         &http.Client{Timeout: timeout},
		circuitBreaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
		retryConfig:    retry.DefaultConfig(),
		serviceName:    serviceName,
		headers:        http.Header{},
	}
}

// SetHeader adds a header sent with every request
func (c *HTTPClient) SetHeader(key, value string) {
	c.headers.Set(key, value)
}

// APIError is a non-2xx response that was not retried.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", http.StatusText(e.StatusCode), e.StatusCode, string(e.Body))
}

// PostJSON sends body as JSON and decodes a 2xx response into out (which may
// be nil). 5xx responses are retried; 4xx responses are returned as *APIError.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()
	var respBody []byte

	err = c.circuitBreaker.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
			if err != nil {
				return retry.Permanent(err)
			}
			req.Header.Set("Content-Type", "application/json")
			for k, v := range c.headers {
				req.Header[k] = v
			}

			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			switch {
			case resp.StatusCode >= 500:
				return &APIError{StatusCode: resp.StatusCode, Body: b}
			case resp.StatusCode >= 400:
				return retry.Permanent(&APIError{StatusCode: resp.StatusCode, Body: b})
			}
			respBody = b
			return nil
		})
	})

	metrics.RecordServiceCall(c.serviceName, err == nil, time.Since(start))
	metrics.UpdateCircuitBreaker(c.serviceName, c.circuitBreaker.GetState().String(), int64(c.circuitBreaker.Failures()))

	if err != nil {
		return err
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
