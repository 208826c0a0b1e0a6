// Package repository internal/domain/repository/exchange_rate_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
)

// ErrRateNotFound is returned when no stored rate matches a lookup
var ErrRateNotFound = errors.New("exchange rate not found")

// ExchangeRateRepository defines the interface for exchange rate storage
type ExchangeRateRepository interface {
	// StoreRate saves a rate record, replacing any record for the same pair and day
	StoreRate(ctx context.Context, rate *entity.RateRecord) error

	// FindLatest finds the most recent rate for a pair on or before the given date
	FindLatest(ctx context.Context, from, to string, onOrBefore time.Time) (*entity.RateRecord, error)

	// FindHistory lists the rates for a pair between start and end inclusive, oldest first
	FindHistory(ctx context.Context, from, to string, start, end time.Time) ([]*entity.RateRecord, error)
}
