// Package service internal/application/service/exchange_rate_service.go
package service

import (
	"context"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
	domain "github.com/damon-houk/fx-rate-client/internal/domain/service"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/logger"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/middleware"
)

// Endpoint paths of the exchange-rate API
const (
	QueryPath   = "/query"
	HistoryPath = "/history"
)

// ExchangeRateService issues exchange-rate queries through an injected transport.
// It holds no per-call state; results are handed back exactly as the transport produced them.
type ExchangeRateService struct {
	transport domain.Transport
	logger    logger.Logger
}

// NewExchangeRateService creates a new exchange rate service
func NewExchangeRateService(transport domain.Transport, log logger.Logger) *ExchangeRateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateService{
		transport: transport,
		logger:    log,
	}
}

// QueryExchangeRate requests current exchange-rate data for param
func (s *ExchangeRateService) QueryExchangeRate(ctx context.Context, param entity.QueryParam) *domain.Result {
	return s.read(ctx, QueryPath, param)
}

// QueryExchangeRateHistory requests historical exchange-rate data for param
func (s *ExchangeRateService) QueryExchangeRateHistory(ctx context.Context, param entity.QueryParam) *domain.Result {
	return s.read(ctx, HistoryPath, param)
}

func (s *ExchangeRateService) read(ctx context.Context, path string, param entity.QueryParam) *domain.Result {
	s.logger.Debug("Issuing exchange rate request", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"path":       path,
		"params":     len(param),
	})

	return s.transport.Request(ctx, domain.RequestConfig{
		Method: domain.MethodRead,
		URL:    path,
		Data:   param,
	})
}
