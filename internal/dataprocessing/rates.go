package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "bankscli/internal/errors"
	"bankscli/pkg/contracts/domain"
)

// Rate file header names
const (
	rateCurrencyHeader = "Currency"
	rateValueHeader    = "Rate"
)

// LoadRates reads a Currency,Rate CSV file into a rate table
func LoadRates(path string) (domain.RateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("exchange rate file "+path, err)
		}
		return nil, apperrors.NewStorageError("failed to open exchange rate file "+path, err)
	}
	defer f.Close()

	rates, err := ParseRates(f)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			appErr.WithContext("file", path)
		}
		return nil, err
	}
	return rates, nil
}

// ParseRates reads rate rows from r. Columns are located by header name and
// a repeated currency keeps its last rate.
func ParseRates(r io.Reader) (domain.RateTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("exchange rate file is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read exchange rate header", err)
	}

	currencyCol, rateCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case rateCurrencyHeader:
			currencyCol = i
		case rateValueHeader:
			rateCol = i
		}
	}
	if currencyCol < 0 || rateCol < 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("exchange rate header must contain %s and %s, got %v", rateCurrencyHeader, rateValueHeader, header), nil)
	}

	rates := make(domain.RateTable)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read exchange rate row", err).WithContext("line", line)
		}

		code := strings.TrimSpace(record[currencyCol])
		if code == "" {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(record[rateCol]), 64)
		if err != nil {
			return nil, apperrors.NewParsingError("invalid exchange rate for "+code, err).WithContext("line", line)
		}
		rates[domain.Currency(code)] = rate
	}

	return rates, nil
}
