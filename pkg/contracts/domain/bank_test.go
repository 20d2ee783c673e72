package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Columns(t *testing.T) {
	table := NewTable([]Bank{{Name: "Bank A", MarketCapUSD: 100}})

	assert.False(t, table.Enriched())
	assert.Equal(t, []string{"Name", "MC_USD_Billion"}, table.Columns())
	assert.Equal(t, []interface{}{"Bank A", 100.0}, table.Values(0))

	table.MarkEnriched()
	assert.True(t, table.Enriched())
	assert.Equal(t, []string{"Name", "MC_USD_Billion", "MC_GBP_Billion", "MC_EUR_Billion", "MC_INR_Billion"}, table.Columns())
	assert.Len(t, table.Values(0), 5)
}

func TestTable_NilSafe(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.Enriched())

	empty := NewTable(nil)
	assert.NotNil(t, empty.Records)
	assert.Equal(t, 0, empty.Len())
}

func TestRateTable_Missing(t *testing.T) {
	tests := []struct {
		name  string
		rates RateTable
		want  []Currency
	}{
		{
			name:  "complete",
			rates: RateTable{CurrencyGBP: 0.8, CurrencyEUR: 0.93, CurrencyINR: 82.95},
			want:  nil,
		},
		{
			name:  "missing inr",
			rates: RateTable{CurrencyGBP: 0.8, CurrencyEUR: 0.93},
			want:  []Currency{CurrencyINR},
		},
		{
			name:  "empty",
			rates: RateTable{},
			want:  []Currency{CurrencyGBP, CurrencyEUR, CurrencyINR},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rates.Missing())
		})
	}
}

func TestColumnFor(t *testing.T) {
	assert.Equal(t, ColumnGBP, ColumnFor(CurrencyGBP))
	assert.Equal(t, ColumnINR, ColumnFor(CurrencyINR))
	assert.Equal(t, "", ColumnFor(Currency("JPY")))
}
