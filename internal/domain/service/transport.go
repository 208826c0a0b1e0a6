package service

import (
	"context"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
)

// Method is the verb token of an outbound request
type Method string

const (
	// MethodRead is used for requests that only fetch data
	MethodRead Method = "GET"
	// MethodWrite is used for requests that submit data
	MethodWrite Method = "POST"
)

// RequestConfig describes one request handed to a Transport
type RequestConfig struct {
	Method Method
	URL    string
	Data   entity.QueryParam
}

// Transport performs the network call described by a RequestConfig.
//
// Request must not block: it returns a pending Result that settles once the
// call completes. Failures are reported through the Result's rejection.
type Transport interface {
	Request(ctx context.Context, cfg RequestConfig) *Result
}
