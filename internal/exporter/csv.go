package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bankscli/internal/config"
	apperrors "bankscli/internal/errors"
	"bankscli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance. Relative file paths are
// resolved against the output directory in paths.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory "+dir, err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return apperrors.NewStorageError("failed to open "+fullPath, err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush "+fullPath, err)
	}
	return file.Close()
}

// WriteTable overwrites filePath with the table, preceded by an unnamed
// 0-based index column.
func (w *CSVWriter) WriteTable(filePath string, table *domain.Table) error {
	columns := table.Columns()
	headers := append([]string{""}, columns...)

	records := make([][]string, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(i))
		for _, v := range table.Values(i) {
			row = append(row, formatValue(v))
		}
		records = append(records, row)
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers: headers,
		Records: records,
	})
}

// ReadTable reads a file produced by WriteTable. The index column is ignored
// and columns are matched by header name.
func ReadTable(filePath string) (*domain.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open "+filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header of "+filePath, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	if _, ok := index[domain.ColumnName]; !ok {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no %s column", filePath, domain.ColumnName), nil)
	}
	if _, ok := index[domain.ColumnUSD]; !ok {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no %s column", filePath, domain.ColumnUSD), nil)
	}

	_, enriched := index[domain.ColumnGBP]

	records := make([]domain.Bank, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read "+filePath, err).WithContext("line", line)
		}

		bank := domain.Bank{Name: row[index[domain.ColumnName]]}
		targets := []struct {
			column string
			dst    *float64
		}{
			{domain.ColumnUSD, &bank.MarketCapUSD},
			{domain.ColumnGBP, &bank.MarketCapGBP},
			{domain.ColumnEUR, &bank.MarketCapEUR},
			{domain.ColumnINR, &bank.MarketCapINR},
		}
		for _, target := range targets {
			col, ok := index[target.column]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, apperrors.NewParsingError("invalid "+target.column+" value", err).WithContext("line", line)
			}
			*target.dst = v
		}
		records = append(records, bank)
	}

	if enriched {
		return domain.NewEnrichedTable(records), nil
	}
	return domain.NewTable(records), nil
}

// resolvePath places bare file names in the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if w.paths == nil || w.paths.OutputDir == "" || filepath.Dir(filePath) != "." {
		return filePath
	}
	return filepath.Join(w.paths.OutputDir, filePath)
}
