// Package service internal/application/service/rate_lookup_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
	"github.com/damon-houk/fx-rate-client/internal/domain/repository"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/logger"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/middleware"
)

const (
	dateLayout = "2006-01-02"

	// DefaultHistoryWindow is used when a history lookup has no start date
	DefaultHistoryWindow = 30 * 24 * time.Hour
)

// ErrInvalidLookup is returned for lookups with malformed currencies or dates
var ErrInvalidLookup = errors.New("invalid rate lookup")

// HistoryQuery describes a history lookup. Empty dates take defaults.
type HistoryQuery struct {
	From  string
	To    string
	Start string
	End   string
}

// RateLookupService answers rate lookups from stored records
type RateLookupService struct {
	repo   repository.ExchangeRateRepository
	logger logger.Logger
	now    func() time.Time
}

// NewRateLookupService creates a new rate lookup service
func NewRateLookupService(repo repository.ExchangeRateRepository, log logger.Logger) *RateLookupService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateLookupService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Latest returns the newest rate for the pair on or before date (today when empty)
func (s *RateLookupService) Latest(ctx context.Context, from, to, date string) (*entity.RateRecord, error) {
	requestID := middleware.GetRequestID(ctx)

	from, to, err := normalizePair(from, to)
	if err != nil {
		return nil, err
	}

	day, err := s.parseDay(date)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Finding latest exchange rate", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"date":       day.Format(dateLayout),
	})

	rate, err := s.repo.FindLatest(ctx, from, to, day)
	if err != nil {
		s.logger.Warn("Failed to find latest exchange rate", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to find exchange rate: %w", err)
	}

	return rate, nil
}

// History returns the rates for the pair within the query's date range
func (s *RateLookupService) History(ctx context.Context, q HistoryQuery) ([]*entity.RateRecord, error) {
	requestID := middleware.GetRequestID(ctx)

	from, to, err := normalizePair(q.From, q.To)
	if err != nil {
		return nil, err
	}

	end, err := s.parseDay(q.End)
	if err != nil {
		return nil, err
	}

	start := end.Add(-DefaultHistoryWindow)
	if q.Start != "" {
		if start, err = s.parseDay(q.Start); err != nil {
			return nil, err
		}
	}

	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidLookup,
			start.Format(dateLayout), end.Format(dateLayout))
	}

	rates, err := s.repo.FindHistory(ctx, from, to, start, end)
	if err != nil {
		s.logger.Warn("Failed to find exchange rate history", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to find exchange rate history: %w", err)
	}

	s.logger.Info("Found exchange rate history", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"start":      start.Format(dateLayout),
		"end":        end.Format(dateLayout),
		"count":      len(rates),
	})

	return rates, nil
}

// Publish stores a rate record after normalizing its currencies and date
func (s *RateLookupService) Publish(ctx context.Context, rate *entity.RateRecord) error {
	from, to, err := normalizePair(rate.From, rate.To)
	if err != nil {
		return err
	}

	rate.From, rate.To = from, to
	rate.Date = truncateDay(rate.Date)

	if err := rate.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLookup, err)
	}

	if err := s.repo.StoreRate(ctx, rate); err != nil {
		return fmt.Errorf("failed to store exchange rate: %w", err)
	}

	s.logger.Info("Exchange rate published", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"from":       rate.From,
		"to":         rate.To,
		"date":       rate.Date.Format(dateLayout),
		"rate":       rate.Rate.String(),
	})

	return nil
}

func (s *RateLookupService) parseDay(value string) (time.Time, error) {
	if value == "" {
		return truncateDay(s.now()), nil
	}

	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be in YYYY-MM-DD format", ErrInvalidLookup, value)
	}

	return day, nil
}

func normalizePair(from, to string) (string, string, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if len(from) != 3 || len(to) != 3 {
		return "", "", fmt.Errorf("%w: currency codes should be 3 characters (e.g., USD, EUR)", ErrInvalidLookup)
	}

	return from, to, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
