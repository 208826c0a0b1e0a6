package api

import (
	"testing"
	"time"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQuery(t *testing.T) {
	values, err := encodeQuery(entity.QueryParam{
		"from":    "USD",
		"to":      []any{"EUR", nil, "JPY"},
		"amount":  decimal.RequireFromString("12.50"),
		"latest":  true,
		"date":    time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC),
		"missing": nil,
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", values.Get("from"))
	assert.Equal(t, []string{"EUR", "JPY"}, values["to"])
	assert.Equal(t, "12.5", values.Get("amount"))
	assert.Equal(t, "true", values.Get("latest"))
	assert.Equal(t, "2024-02-29", values.Get("date"))
	assert.NotContains(t, values, "missing")
}

func TestEncodeQueryEmpty(t *testing.T) {
	values, err := encodeQuery(nil)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestEncodeQueryRejectsNestedValues(t *testing.T) {
	_, err := encodeQuery(entity.QueryParam{"range": struct{ Start string }{"2023-01-01"}})
	assert.ErrorContains(t, err, `query key "range"`)

	_, err = encodeQuery(entity.QueryParam{"pairs": [][]string{{"USD", "EUR"}}})
	assert.Error(t, err)
}
