package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bankscli/internal/errors"
	"bankscli/pkg/contracts/domain"
)

var courseRates = domain.RateTable{
	domain.CurrencyGBP: 0.8,
	domain.CurrencyEUR: 0.93,
	domain.CurrencyINR: 82.95,
}

func TestEnrich(t *testing.T) {
	table := domain.NewTable([]domain.Bank{{Name: "Bank A", MarketCapUSD: 100.0}})

	require.NoError(t, Enrich(table, courseRates))

	assert.True(t, table.Enriched())
	assert.Equal(t, domain.Bank{
		Name:         "Bank A",
		MarketCapUSD: 100.0,
		MarketCapGBP: 80.0,
		MarketCapEUR: 93.0,
		MarketCapINR: 8295.0,
	}, table.Records[0])
}

func TestEnrich_PreservesOrderAndCount(t *testing.T) {
	table := domain.NewTable([]domain.Bank{
		{Name: "JPMorgan Chase", MarketCapUSD: 432.92},
		{Name: "Bank of America", MarketCapUSD: 231.52},
		{Name: "HDFC Bank", MarketCapUSD: 157.91},
	})

	require.NoError(t, Enrich(table, courseRates))

	require.Equal(t, 3, table.Len())
	assert.Equal(t, "JPMorgan Chase", table.Records[0].Name)
	assert.Equal(t, 346.34, table.Records[0].MarketCapGBP)
	assert.Equal(t, 402.62, table.Records[0].MarketCapEUR)
	assert.Equal(t, 35910.71, table.Records[0].MarketCapINR)
	assert.Equal(t, "HDFC Bank", table.Records[2].Name)
}

func TestEnrich_EmptyTable(t *testing.T) {
	table := domain.NewTable(nil)

	require.NoError(t, Enrich(table, courseRates))
	assert.Equal(t, 0, table.Len())
	assert.True(t, table.Enriched())
}

func TestEnrich_MissingRates(t *testing.T) {
	tests := []struct {
		name    string
		rates   domain.RateTable
		missing []string
	}{
		{"no rates", domain.RateTable{}, []string{"GBP", "EUR", "INR"}},
		{"missing EUR", domain.RateTable{"GBP": 0.8, "INR": 82.95}, []string{"EUR"}},
		{"only USD", domain.RateTable{"USD": 1}, []string{"GBP", "EUR", "INR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := domain.NewTable([]domain.Bank{{Name: "Bank A", MarketCapUSD: 100}})

			err := Enrich(table, tt.rates)

			require.Error(t, err)
			var rateErr *apperrors.MissingRateError
			require.ErrorAs(t, err, &rateErr)
			assert.Equal(t, tt.missing, rateErr.Currencies)

			assert.False(t, table.Enriched(), "table must be untouched")
			assert.Zero(t, table.Records[0].MarketCapGBP)
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{80.0, 80.0},
		{1.005, 1.0}, // 1.005 is stored as 1.00499999...
		{2.675, 2.68},
		{0.125, 0.13},
		{-0.125, -0.13},
		{12.3449, 12.34},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}
