package errors

import (
	"errors"
	"strings"
)

// ErrSourceTableNotFound is returned when the HTML document has no table body to extract
var ErrSourceTableNotFound = errors.New("source table not found")

// MissingRateError is returned when the rate table lacks one or more target currencies
type MissingRateError struct {
	Currencies []string
}

// Error implements the error interface
func (e *MissingRateError) Error() string {
	return "missing exchange rate for " + strings.Join(e.Currencies, ", ")
}

// NewMissingRateError creates a MissingRateError for the given currency codes
func NewMissingRateError(currencies ...string) *MissingRateError {
	return &MissingRateError{Currencies: currencies}
}

// IsMissingRate reports whether err is or wraps a MissingRateError
func IsMissingRate(err error) bool {
	var rateErr *MissingRateError
	return errors.As(err, &rateErr)
}
