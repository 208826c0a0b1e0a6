package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
	"github.com/damon-houk/fx-rate-client/internal/domain/service"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/config"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/logger"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryBackoff = time.Second
)

// HTTPTransport implements service.Transport over HTTP against the exchange-rate API
type HTTPTransport struct {
	baseURL      string
	httpClient   *http.Client
	maxAttempts  int
	retryBackoff time.Duration
	logger       logger.Logger
	metrics      *Metrics
}

// Option customizes an HTTPTransport
type Option func(*HTTPTransport)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(t *HTTPTransport) {
		if client != nil {
			t.httpClient = client
		}
	}
}

// WithRetry sets the total number of attempts and the base backoff between them
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(t *HTTPTransport) {
		if maxAttempts > 0 {
			t.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			t.retryBackoff = backoff
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log logger.Logger) Option {
	return func(t *HTTPTransport) {
		if log != nil {
			t.logger = log
		}
	}
}

// WithMetrics records request outcomes on m
func WithMetrics(m *Metrics) Option {
	return func(t *HTTPTransport) {
		t.metrics = m
	}
}

// NewHTTPTransport creates a transport sending requests relative to baseURL
func NewHTTPTransport(baseURL string, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		maxAttempts:  defaultMaxAttempts,
		retryBackoff: defaultRetryBackoff,
		logger:       logger.GetDefaultLogger(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// NewHTTPTransportFromConfig wires a transport from loaded configuration.
// Metrics are registered on reg when it is not nil.
func NewHTTPTransportFromConfig(cfg config.Client, log logger.Logger, reg prometheus.Registerer) (*HTTPTransport, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	return NewHTTPTransport(cfg.BaseURL,
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithRetry(cfg.MaxAttempts, cfg.RetryBackoff),
		WithLogger(log),
		WithMetrics(metrics),
	), nil
}

// Request starts the call in the background and returns its pending result
func (t *HTTPTransport) Request(ctx context.Context, cfg service.RequestConfig) *service.Result {
	result := service.NewResult()

	go func() {
		resp, err := t.do(ctx, cfg)
		if err != nil {
			result.Reject(err)
			return
		}
		result.Resolve(resp)
	}()

	return result
}

func (t *HTTPTransport) do(ctx context.Context, cfg service.RequestConfig) (*entity.Response, error) {
	startTime := time.Now()

	method := string(cfg.Method)
	if method == "" {
		method = string(service.MethodRead)
	}

	reqURL, body, err := t.buildRequest(method, cfg)
	if err != nil {
		t.metrics.observe(method, cfg.URL, outcomeInvalidRequest, time.Since(startTime))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	requestID := middleware.GetRequestID(ctx)
	if requestID == "unknown" {
		requestID = uuid.New().String()
	}

	log := t.logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"method":     method,
		"path":       cfg.URL,
	})

	log.Debug("Sending exchange rate request", map[string]interface{}{
		"url": reqURL,
	})

	// Execute request with retry logic
	var resp *http.Response
	attempt := 1

	for ; attempt <= t.maxAttempts; attempt++ {
		var req *http.Request
		req, err = newRequest(ctx, method, reqURL, body, requestID)
		if err != nil {
			t.metrics.observe(method, cfg.URL, outcomeInvalidRequest, time.Since(startTime))
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}

		resp, err = t.httpClient.Do(req)
		if err == nil || ctx.Err() != nil || attempt == t.maxAttempts {
			break
		}

		// Wait with exponential backoff before retrying
		backoffTime := time.Duration(attempt*attempt) * t.retryBackoff
		log.Warn("Request failed, retrying", map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": t.maxAttempts,
			"backoff":      backoffTime.String(),
			"error":        err.Error(),
		})

		if waitErr := sleepContext(ctx, backoffTime); waitErr != nil {
			err = waitErr
			break
		}
	}

	if err != nil {
		t.metrics.observe(method, cfg.URL, outcomeNetworkError, time.Since(startTime))
		log.Error("Request failed", map[string]interface{}{
			"attempts": attempt,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrRequestFailed, attempt, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.metrics.observe(method, cfg.URL, outcomeNetworkError, time.Since(startTime))
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrRequestFailed, err)
	}

	log.Debug("Received exchange rate response", map[string]interface{}{
		"status":      resp.StatusCode,
		"body_length": len(bodyBytes),
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.metrics.observe(method, cfg.URL, outcomeHTTPError, time.Since(startTime))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       bodyBytes,
		}
	}

	t.metrics.observe(method, cfg.URL, outcomeSuccess, time.Since(startTime))

	return &entity.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       bodyBytes,
	}, nil
}

// buildRequest resolves the target URL and encodes the data either into the
// query string (read requests) or a JSON body (everything else)
func (t *HTTPTransport) buildRequest(method string, cfg service.RequestConfig) (string, []byte, error) {
	u, err := url.Parse(t.baseURL + cfg.URL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	if method == http.MethodGet || method == http.MethodHead || method == http.MethodDelete {
		values, err := encodeQuery(cfg.Data)
		if err != nil {
			return "", nil, err
		}

		query := u.Query()
		for key, vals := range values {
			for _, v := range vals {
				query.Add(key, v)
			}
		}
		u.RawQuery = query.Encode()

		return u.String(), nil, nil
	}

	body, err := json.Marshal(cfg.Data)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	return u.String(), body, nil
}

func newRequest(ctx context.Context, method, reqURL string, body []byte, requestID string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
