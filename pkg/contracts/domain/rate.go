package domain

// Currency is an ISO 4217 currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
	CurrencyINR Currency = "INR"
)

// TargetCurrencies lists the currencies derived from the USD column, in column order
var TargetCurrencies = []Currency{CurrencyGBP, CurrencyEUR, CurrencyINR}

// RateTable maps a currency to its multiplier against USD
type RateTable map[Currency]float64

// Missing returns the target currencies that have no rate, in column order
func (r RateTable) Missing() []Currency {
	var missing []Currency
	for _, c := range TargetCurrencies {
		if _, ok := r[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// ColumnFor returns the table column that holds values converted to c
func ColumnFor(c Currency) string {
	switch c {
	case CurrencyUSD:
		return ColumnUSD
	case CurrencyGBP:
		return ColumnGBP
	case CurrencyEUR:
		return ColumnEUR
	case CurrencyINR:
		return ColumnINR
	default:
		return ""
	}
}
