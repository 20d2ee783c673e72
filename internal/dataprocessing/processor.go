package dataprocessing

import (
	"math"

	apperrors "bankscli/internal/errors"
	"bankscli/pkg/contracts/domain"
)

// Enrich adds the GBP, EUR and INR market cap columns to every record.
// The table is left untouched when any target rate is missing.
func Enrich(table *domain.Table, rates domain.RateTable) error {
	if missing := rates.Missing(); len(missing) > 0 {
		codes := make([]string, len(missing))
		for i, c := range missing {
			codes[i] = string(c)
		}
		return apperrors.NewMissingRateError(codes...)
	}

	gbp, eur, inr := rates[domain.CurrencyGBP], rates[domain.CurrencyEUR], rates[domain.CurrencyINR]
	for i := range table.Records {
		usd := table.Records[i].MarketCapUSD
		table.Records[i].MarketCapGBP = Round2(usd * gbp)
		table.Records[i].MarketCapEUR = Round2(usd * eur)
		table.Records[i].MarketCapINR = Round2(usd * inr)
	}
	table.MarkEnriched()

	return nil
}

// Round2 rounds v to two decimal places, halves away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
