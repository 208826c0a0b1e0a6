// Package db internal/infrastructure/db/badger_rate_repository.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
	"github.com/damon-houk/fx-rate-client/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const dayLayout = "2006-01-02"

// BadgerRateRepository implements the exchange rate repository using BadgerDB.
// Keys are rate:<FROM>:<TO>:<YYYY-MM-DD>, so a pair's records sort by day.
type BadgerRateRepository struct {
	db *badger.DB
}

// NewBadgerRateRepository creates a new BadgerDB exchange rate repository
func NewBadgerRateRepository(db *badger.DB) *BadgerRateRepository {
	return &BadgerRateRepository{db: db}
}

func pairPrefix(from, to string) []byte {
	return []byte("rate:" + from + ":" + to + ":")
}

func rateKey(from, to string, day time.Time) []byte {
	return append(pairPrefix(from, to), day.UTC().Format(dayLayout)...)
}

// StoreRate saves a rate, replacing any existing rate for the same pair and day
func (r *BadgerRateRepository) StoreRate(ctx context.Context, rate *entity.RateRecord) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange rate: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(rateKey(rate.From, rate.To, rate.Date), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store exchange rate: %w", err)
	}

	return nil
}

// FindLatest finds the most recent rate for the pair on or before the given day
func (r *BadgerRateRepository) FindLatest(ctx context.Context, from, to string, onOrBefore time.Time) (*entity.RateRecord, error) {
	var rate *entity.RateRecord
	prefix := pairPrefix(from, to)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse Seek lands on the largest key <= the seek key
		it.Seek(rateKey(from, to, onOrBefore))
		if !it.ValidForPrefix(prefix) {
			return repository.ErrRateNotFound
		}

		var err error
		rate, err = decodeRate(it.Item())
		return err
	})

	if errors.Is(err, repository.ErrRateNotFound) {
		return nil, fmt.Errorf("%w: %s/%s on or before %s", repository.ErrRateNotFound,
			from, to, onOrBefore.Format(dayLayout))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve exchange rate: %w", err)
	}

	return rate, nil
}

// FindHistory lists the rates for the pair between start and end inclusive, oldest first
func (r *BadgerRateRepository) FindHistory(ctx context.Context, from, to string, start, end time.Time) ([]*entity.RateRecord, error) {
	rates := make([]*entity.RateRecord, 0)
	prefix := pairPrefix(from, to)
	last := string(rateKey(from, to, end))

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(rateKey(from, to, start)); it.ValidForPrefix(prefix); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			item := it.Item()
			if string(item.Key()) > last {
				break
			}

			rate, err := decodeRate(item)
			if err != nil {
				return err
			}
			rates = append(rates, rate)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve exchange rate history: %w", err)
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: %s/%s between %s and %s", repository.ErrRateNotFound,
			from, to, start.Format(dayLayout), end.Format(dayLayout))
	}

	return rates, nil
}

func decodeRate(item *badger.Item) (*entity.RateRecord, error) {
	var rate entity.RateRecord
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rate)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode exchange rate %s: %w", item.Key(), err)
	}
	return &rate, nil
}
