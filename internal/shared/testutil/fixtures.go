package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BankRow is one row of a fixture ranking table
type BankRow struct {
	Rank      string
	Name      string
	MarketCap string
}

// DefaultBankRows mirrors the top of the archived ranking page
var DefaultBankRows = []BankRow{
	{"1", "JPMorgan Chase", "432.92"},
	{"2", "Bank of America", "231.52"},
	{"3", "Industrial and Commercial Bank of China", "194.56"},
	{"4", "Agricultural Bank of China", "160.68"},
	{"5", "HDFC Bank", "157.91"},
	{"6", "Wells Fargo", "155.87"},
	{"7", "HSBC Holdings PLC", "148.90"},
}

// DefaultRates are the conversion rates shipped with the course material
var DefaultRates = map[string]string{
	"EUR": "0.93",
	"GBP": "0.8",
	"INR": "82.95",
}

// RankingTableHTML renders a wikitable with a header row followed by rows.
// Names carry a trailing newline like the live page does.
func RankingTableHTML(caption string, rows []BankRow) string {
	var b strings.Builder
	b.WriteString(`<table class="wikitable">`)
	if caption != "" {
		fmt.Fprintf(&b, "<caption>%s</caption>", caption)
	}
	b.WriteString("<tbody><tr><th>Rank</th><th>Bank name</th><th>Market cap<br/>(US$ billion)</th></tr>")
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr><td>%s</td><td><a href=\"/wiki/x\">%s</a>\n</td><td>%s\n</td></tr>", r.Rank, r.Name, r.MarketCap)
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// RankingPageHTML wraps the given tables in a minimal document
func RankingPageHTML(tables ...string) string {
	return "<html><head><title>Largest banks</title></head><body>" +
		strings.Join(tables, "\n") + "</body></html>"
}

// WriteRatesFile writes a Currency,Rate CSV into dir and returns its path
func WriteRatesFile(t *testing.T, dir string, rates map[string]string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("Currency,Rate\n")
	for _, code := range []string{"EUR", "GBP", "INR", "USD"} {
		if rate, ok := rates[code]; ok {
			fmt.Fprintf(&b, "%s,%s\n", code, rate)
		}
	}

	path := filepath.Join(dir, "exchange_rate.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("failed to write rates file: %v", err)
	}
	return path
}
