package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bankscli/internal/errors"
	"bankscli/internal/shared/testutil"
	"bankscli/pkg/contracts/domain"
)

func TestParseHTML_HeaderAndDataRow(t *testing.T) {
	html := `<html><body><table><tbody>
		<tr><th>Rank</th><th>Bank name</th><th>Market cap</th></tr>
		<tr><td>1</td><td>Bank A</td><td>100.5</td></tr>
	</tbody></table></body></html>`

	table, stats, err := ParseHTML(html, TableSelector{})

	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, domain.Bank{Name: "Bank A", MarketCapUSD: 100.5}, table.Records[0])
	assert.False(t, table.Enriched())
	assert.Equal(t, ParseStats{Rows: 1, Headers: 1}, stats)
}

func TestParseHTML_CleansCells(t *testing.T) {
	html := testutil.RankingPageHTML(testutil.RankingTableHTML("", testutil.DefaultBankRows))

	table, stats, err := ParseHTML(html, TableSelector{})

	require.NoError(t, err)
	require.Equal(t, len(testutil.DefaultBankRows), table.Len())
	assert.Equal(t, len(testutil.DefaultBankRows), stats.Rows)
	assert.Equal(t, "JPMorgan Chase", table.Records[0].Name)
	assert.Equal(t, 432.92, table.Records[0].MarketCapUSD)
	assert.Equal(t, "HSBC Holdings PLC", table.Records[6].Name)
}

func TestParseHTML_EmbeddedNewlineInName(t *testing.T) {
	html := `<table><tbody><tr><td>1</td><td>
		Bank of
New York </td><td> 42 </td></tr></tbody></table>`

	table, _, err := ParseHTML(html, TableSelector{})

	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Bank ofNew York", table.Records[0].Name)
	assert.Equal(t, 42.0, table.Records[0].MarketCapUSD)
}

func TestParseHTML_SkipsMalformedRows(t *testing.T) {
	html := `<table><tbody>
		<tr><th>Rank</th><th>Bank</th><th>Cap</th></tr>
		<tr><td>1</td><td>Good Bank</td><td>10.0</td></tr>
		<tr><td>2</td><td>Short row</td></tr>
		<tr><td>3</td><td>Footnote Bank</td><td>n/a</td></tr>
		<tr><td>4</td><td>Comma Bank</td><td>1,234.5</td></tr>
		<tr><td>5</td><td>Other Bank</td><td>20.25</td></tr>
	</tbody></table>`

	table, stats, err := ParseHTML(html, TableSelector{})

	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Good Bank", table.Records[0].Name)
	assert.Equal(t, "Other Bank", table.Records[1].Name)
	assert.Equal(t, ParseStats{Rows: 2, Headers: 1, Skipped: 3}, stats)
}

func TestParseHTML_SelectsFirstBodyByDefault(t *testing.T) {
	html := testutil.RankingPageHTML(
		testutil.RankingTableHTML("By market capitalization", []testutil.BankRow{{"1", "First", "1"}}),
		testutil.RankingTableHTML("By total assets", []testutil.BankRow{{"1", "Second", "2"}}),
	)

	tests := []struct {
		name     string
		selector TableSelector
		want     string
	}{
		{"default index", TableSelector{}, "First"},
		{"second index", TableSelector{Index: 1}, "Second"},
		{"caption match", TableSelector{Caption: "total ASSETS"}, "Second"},
		{"caption wins over index", TableSelector{Index: 1, Caption: "market cap"}, "First"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, _, err := ParseHTML(html, tt.selector)
			require.NoError(t, err)
			require.Equal(t, 1, table.Len())
			assert.Equal(t, tt.want, table.Records[0].Name)
		})
	}
}

func TestParseHTML_IgnoresInsertedBodies(t *testing.T) {
	html := `<table><tr><td>x</td><td>Layout</td><td>1</td></tr></table>
		<table><tbody><tr><td>1</td><td>Bank A</td><td>100.5</td></tr></tbody></table>
		<table><TBODY class="late"><tr><td>2</td><td>Bank B</td><td>50</td></tr></TBODY></table>`

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"first written body", 0, "Bank A"},
		{"second written body", 1, "Bank B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, _, err := ParseHTML(html, TableSelector{Index: tt.index})
			require.NoError(t, err)
			require.Equal(t, 1, table.Len())
			assert.Equal(t, tt.want, table.Records[0].Name)
		})
	}

	_, _, err := ParseHTML(html, TableSelector{Index: 2})
	assert.True(t, errors.Is(err, apperrors.ErrSourceTableNotFound))
}

func TestParseHTML_KeepsScriptText(t *testing.T) {
	html := `<script>var s = "<tbody>";</script>
		<table><tbody><tr><td>1</td><td>Bank A</td><td>100.5</td></tr></tbody></table>`

	table, _, err := ParseHTML(html, TableSelector{})

	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Bank A", table.Records[0].Name)
}

// Caption selection uses the first body of the matching table even when the
// parser inserted it.
func TestParseHTML_HeadingMatch(t *testing.T) {
	html := `<html><body>
		<h2>By market capitalization</h2>
		<table><tr><td>1</td><td>Heading Bank</td><td>7</td></tr></table>
	</body></html>`

	table, _, err := ParseHTML(html, TableSelector{Caption: "market capitalization"})

	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Heading Bank", table.Records[0].Name)
}

func TestParseHTML_TableNotFound(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		selector TableSelector
	}{
		{"no table", "<html><body><p>nothing here</p></body></html>", TableSelector{}},
		{"table without tbody", "<html><body><table><tr><td>1</td><td>Bank A</td><td>100.5</td></tr></table></body></html>", TableSelector{}},
		{"index out of range", testutil.RankingPageHTML(testutil.RankingTableHTML("", nil)), TableSelector{Index: 3}},
		{"caption not matched", testutil.RankingPageHTML(testutil.RankingTableHTML("Assets", nil)), TableSelector{Caption: "capitalization"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseHTML(tt.html, tt.selector)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrSourceTableNotFound))
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
		})
	}
}

func TestParseHTML_EmptyBody(t *testing.T) {
	html := testutil.RankingPageHTML(testutil.RankingTableHTML("", nil))

	table, stats, err := ParseHTML(html, TableSelector{})

	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.NotNil(t, table.Records)
	assert.Equal(t, 1, stats.Headers)
}

func TestIsDataRow(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  bool
	}{
		{"well formed", []string{"1", "Bank A", "100.5"}, true},
		{"extra cells", []string{"1", "Bank A", "100.5", "note"}, true},
		{"integer value", []string{"1", "Bank A", "100"}, true},
		{"too few cells", []string{"1", "Bank A"}, false},
		{"empty", nil, false},
		{"non numeric", []string{"1", "Bank A", "—"}, false},
		{"blank value", []string{"1", "Bank A", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDataRow(tt.cells))
		})
	}
}

func TestTableSelector_String(t *testing.T) {
	assert.Equal(t, "tbody[0]", TableSelector{}.String())
	assert.Equal(t, `caption "Assets"`, TableSelector{Index: 2, Caption: "Assets"}.String())
}
