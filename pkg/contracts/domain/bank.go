package domain

// Column names shared by every sink
const (
	ColumnName = "Name"
	ColumnUSD  = "MC_USD_Billion"
	ColumnGBP  = "MC_GBP_Billion"
	ColumnEUR  = "MC_EUR_Billion"
	ColumnINR  = "MC_INR_Billion"
)

// Bank represents one row of the largest-banks ranking.
// Market capitalisation values are expressed in billions.
type Bank struct {
	Name         string  `json:"name" db:"Name" validate:"required"`
	MarketCapUSD float64 `json:"mc_usd_billion" db:"MC_USD_Billion"`
	MarketCapGBP float64 `json:"mc_gbp_billion,omitempty" db:"MC_GBP_Billion"`
	MarketCapEUR float64 `json:"mc_eur_billion,omitempty" db:"MC_EUR_Billion"`
	MarketCapINR float64 `json:"mc_inr_billion,omitempty" db:"MC_INR_Billion"`
}

// Table is the ordered set of banks produced by the parser.
// The derived currency columns exist only once the table has been enriched.
type Table struct {
	Records  []Bank
	enriched bool
}

// NewTable creates a table from parsed records, preserving their order
func NewTable(records []Bank) *Table {
	if records == nil {
		records = []Bank{}
	}
	return &Table{Records: records}
}

// NewEnrichedTable creates a table whose records already carry converted values,
// for example when reading a previously exported file.
func NewEnrichedTable(records []Bank) *Table {
	t := NewTable(records)
	t.enriched = true
	return t
}

// Len returns the number of records
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Enriched reports whether the derived currency columns are present
func (t *Table) Enriched() bool {
	return t != nil && t.enriched
}

// MarkEnriched flags the derived columns as populated
func (t *Table) MarkEnriched() {
	t.enriched = true
}

// Columns returns the column names in output order
func (t *Table) Columns() []string {
	if t.Enriched() {
		return []string{ColumnName, ColumnUSD, ColumnGBP, ColumnEUR, ColumnINR}
	}
	return []string{ColumnName, ColumnUSD}
}

// Values returns the row at index i as column-ordered values matching Columns()
func (t *Table) Values(i int) []interface{} {
	b := t.Records[i]
	if t.Enriched() {
		return []interface{}{b.Name, b.MarketCapUSD, b.MarketCapGBP, b.MarketCapEUR, b.MarketCapINR}
	}
	return []interface{}{b.Name, b.MarketCapUSD}
}
