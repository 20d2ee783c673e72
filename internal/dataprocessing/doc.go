// Package dataprocessing turns the fetched ranking page into an enriched table.
//
// # Parsing
//
// ParseHTML selects one table body from the document and walks its rows. A row
// becomes a record only when IsDataRow accepts it: at least three cells with a
// numeric third cell. Header rows and malformed rows are dropped and counted in
// ParseStats.
//
//	table, stats, err := dataprocessing.ParseHTML(html, dataprocessing.TableSelector{})
//
// # Enrichment
//
// LoadRates reads a Currency,Rate CSV. Enrich then adds the GBP, EUR and INR
// columns, each rounded to two decimals half away from zero:
//
//	rates, err := dataprocessing.LoadRates("exchange_rate.csv")
//	if err := dataprocessing.Enrich(table, rates); err != nil {
//	    // *errors.MissingRateError when a target currency has no rate
//	}
package dataprocessing
