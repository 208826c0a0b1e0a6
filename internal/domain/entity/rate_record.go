package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RateRecord is one published exchange rate of a currency pair on a given day
type RateRecord struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// Validate ensures the record can be stored
func (r *RateRecord) Validate() error {
	if len(r.From) != 3 || len(r.To) != 3 {
		return errors.New("currency codes must be 3 characters")
	}

	if r.Date.IsZero() {
		return errors.New("rate date is required")
	}

	if !r.Rate.IsPositive() {
		return errors.New("rate must be a positive value")
	}

	return nil
}
