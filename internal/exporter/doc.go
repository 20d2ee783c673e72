// Package exporter writes the enriched bank table to flat files.
//
// CSVWriter is the core writer. WriteCSV handles raw header and record slices;
// WriteTable lays out a domain.Table with a leading unnamed index column, the
// shape produced by a dataframe dump:
//
//	,Name,MC_USD_Billion,MC_GBP_Billion,MC_EUR_Billion,MC_INR_Billion
//	0,JPMorgan Chase,432.92,346.34,402.62,35910.71
//
// ReadTable reads such a file back. XLSXWriter produces the same layout as a
// spreadsheet through excelize.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	if err := writer.WriteTable(paths.CSVFile, table); err != nil {
//	    return err
//	}
package exporter
