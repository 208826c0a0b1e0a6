// internal/infrastructure/api/http_transport_test.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
	"github.com/damon-houk/fx-rate-client/internal/domain/service"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/config"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/logger"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(baseURL string, opts ...Option) *HTTPTransport {
	opts = append([]Option{
		WithLogger(logger.NewJSONLogger(io.Discard, logger.DebugLevel)),
		WithRetry(3, time.Millisecond),
	}, opts...)
	return NewHTTPTransport(baseURL, opts...)
}

func await(t *testing.T, res *service.Result) (*entity.Response, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return res.Await(ctx)
}

func TestHTTPTransportReadRequest(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/query", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get(middleware.RequestIDHeader))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"from":"USD","to":"EUR","rate":"0.92"}`))
	}))
	defer mockServer.Close()

	transport := newTestTransport(mockServer.URL + "/api/")

	res := transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodRead,
		URL:    "/query",
		Data:   entity.QueryParam{"from": "USD", "to": "EUR"},
	})

	resp, err := await(t, res)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"from":"USD","to":"EUR","rate":"0.92"}`, string(resp.Body))
}

func TestHTTPTransportQueryEncoding(t *testing.T) {
	var rawQuery string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	transport := newTestTransport(mockServer.URL)

	_, err := await(t, transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodRead,
		URL:    "/history",
		Data: entity.QueryParam{
			"to":      []string{"EUR", "GBP"},
			"from":    "USD",
			"start":   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			"limit":   30,
			"ignored": nil,
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, "from=USD&limit=30&start=2023-01-01&to=EUR&to=GBP", rawQuery)
}

func TestHTTPTransportWriteRequestSendsJSONBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.URL.RawQuery)

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "USD", payload["from"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer mockServer.Close()

	transport := newTestTransport(mockServer.URL)

	resp, err := await(t, transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodWrite,
		URL:    "/rates",
		Data:   entity.QueryParam{"from": "USD"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHTTPTransportStatusError(t *testing.T) {
	var calls atomic.Int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Exchange rate not found"}`))
	}))
	defer mockServer.Close()

	transport := newTestTransport(mockServer.URL)

	resp, err := await(t, transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodRead,
		URL:    "/query",
		Data:   entity.QueryParam{"from": "USD", "to": "XYZ"},
	}))
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, string(statusErr.Body), "Exchange rate not found")

	// Status errors are answers, not failures, so no retry
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPTransportRetriesNetworkErrors(t *testing.T) {
	var calls atomic.Int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			// Drop the connection without an answer
			hj, ok := w.(http.Hijacker)
			if !assert.True(t, ok) {
				return
			}
			conn, _, err := hj.Hijack()
			if assert.NoError(t, err) {
				conn.Close()
			}
			return
		}
		w.Write([]byte(`{"rate":"0.92"}`))
	}))
	defer mockServer.Close()

	transport := newTestTransport(mockServer.URL)

	resp, err := await(t, transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodRead,
		URL:    "/query",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPTransportGivesUpAfterMaxAttempts(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := mockServer.URL
	mockServer.Close()

	transport := newTestTransport(baseURL, WithRetry(2, time.Millisecond))

	_, err := await(t, transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodRead,
		URL:    "/query",
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestHTTPTransportInvalidRequest(t *testing.T) {
	transport := newTestTransport("http://localhost:1")

	_, err := await(t, transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodRead,
		URL:    "/query",
		Data:   entity.QueryParam{"filter": map[string]string{"nested": "value"}},
	}))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = await(t, transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodWrite,
		URL:    "/rates",
		Data:   entity.QueryParam{"callback": func() {}},
	}))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestHTTPTransportRequestDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()
	defer close(release)

	transport := newTestTransport(mockServer.URL)

	res := transport.Request(context.Background(), service.RequestConfig{
		Method: service.MethodRead,
		URL:    "/query",
	})
	assert.True(t, res.Pending())
}

func TestHTTPTransportContextCancellation(t *testing.T) {
	release := make(chan struct{})
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer mockServer.Close()
	defer close(release)

	transport := newTestTransport(mockServer.URL)

	ctx, cancel := context.WithCancel(context.Background())
	res := transport.Request(ctx, service.RequestConfig{
		Method: service.MethodRead,
		URL:    "/history",
	})
	cancel()

	_, err := await(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHTTPTransportPropagatesRequestID(t *testing.T) {
	var gotID string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(middleware.RequestIDHeader)
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	transport := newTestTransport(mockServer.URL)

	ctx := middleware.WithRequestID(context.Background(), "req-42")
	_, err := await(t, transport.Request(ctx, service.RequestConfig{URL: "/query"}))
	require.NoError(t, err)
	assert.Equal(t, "req-42", gotID)
}

func TestHTTPTransportMetrics(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/history" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	reg := prometheus.NewRegistry()
	transport, err := NewHTTPTransportFromConfig(config.Client{
		BaseURL:      mockServer.URL,
		Timeout:      time.Second,
		MaxAttempts:  1,
		RetryBackoff: time.Millisecond,
	}, logger.NewJSONLogger(io.Discard, logger.InfoLevel), reg)
	require.NoError(t, err)

	_, err = await(t, transport.Request(context.Background(), service.RequestConfig{Method: service.MethodRead, URL: "/query"}))
	require.NoError(t, err)
	_, err = await(t, transport.Request(context.Background(), service.RequestConfig{Method: service.MethodRead, URL: "/history"}))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(transport.metrics.requests.WithLabelValues("GET", "/query", outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(transport.metrics.requests.WithLabelValues("GET", "/history", outcomeHTTPError)))

	count, err := testutil.GatherAndCount(reg, "fxclient_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewHTTPTransportFromConfigRejectsBadURL(t *testing.T) {
	_, err := NewHTTPTransportFromConfig(config.Client{BaseURL: "not a url", MaxAttempts: 1}, nil, nil)
	assert.Error(t, err)
}
