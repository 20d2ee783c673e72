package exporter

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "bankscli/internal/errors"
	"bankscli/pkg/contracts/domain"
)

// Excel rejects longer sheet names
const maxSheetNameLen = 31

// XLSXWriter exports a table as a single-sheet workbook
type XLSXWriter struct {
	sheet string
}

// NewXLSXWriter creates a writer that names the sheet after the table
func NewXLSXWriter(sheet string) *XLSXWriter {
	if sheet == "" {
		sheet = "Sheet1"
	}
	if len(sheet) > maxSheetNameLen {
		sheet = sheet[:maxSheetNameLen]
	}
	return &XLSXWriter{sheet: sheet}
}

// WriteTable writes the table to filePath with the same layout as the CSV:
// a blank-headed index column followed by the table columns.
func (w *XLSXWriter) WriteTable(filePath string, table *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if first := f.GetSheetName(0); first != w.sheet {
		if err := f.SetSheetName(first, w.sheet); err != nil {
			return apperrors.NewStorageError("failed to name sheet "+w.sheet, err)
		}
	}

	columns := table.Columns()
	header := make([]interface{}, 0, len(columns)+1)
	header = append(header, "")
	for _, c := range columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write header row", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return apperrors.NewStorageError("failed to address header row", err)
	}
	if err := f.SetCellStyle(w.sheet, "A1", lastHeader, bold); err != nil {
		return apperrors.NewStorageError("failed to style header row", err)
	}

	for i := 0; i < table.Len(); i++ {
		row := append([]interface{}{i}, table.Values(i)...)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("failed to address row", err)
		}
		if err := f.SetSheetRow(w.sheet, cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write row", err).WithContext("row", i)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for "+filePath, err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return apperrors.NewStorageError("failed to save "+filePath, err)
	}

	slog.Debug("Wrote workbook",
		slog.String("file_path", filePath),
		slog.String("sheet", w.sheet),
		slog.Int("record_count", table.Len()))

	return nil
}
