package dataprocessing

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	apperrors "bankscli/internal/errors"
	"bankscli/pkg/contracts/domain"
)

// Cell positions within a ranking row
const (
	nameCell      = 1
	marketCapCell = 2
	minDataCells  = 3
)

// writtenBodyAttr marks tbody elements present in the source markup. The
// HTML5 parser inserts a tbody into every table that lacks one and those
// must not count when selecting by index.
const writtenBodyAttr = "data-written-tbody"

// TableSelector chooses which table body of the document holds the ranking.
// Index counts only tbody tags written in the markup. When Caption is set it
// takes precedence over Index and the first body of the matching table is
// used, whether written or inserted by the parser.
type TableSelector struct {
	Index   int
	Caption string
}

func (s TableSelector) String() string {
	if s.Caption != "" {
		return fmt.Sprintf("caption %q", s.Caption)
	}
	return fmt.Sprintf("tbody[%d]", s.Index)
}

// ParseStats counts what happened to the rows of the selected table
type ParseStats struct {
	Rows    int // rows turned into records
	Headers int // rows without td cells
	Skipped int // rows with td cells rejected by IsDataRow
}

// ParseHTML extracts the bank name and USD market cap from every data row of
// the selected table, in source order.
func ParseHTML(page string, sel TableSelector) (*domain.Table, ParseStats, error) {
	var stats ParseStats

	marked, err := markWrittenBodies(page)
	if err != nil {
		return nil, stats, apperrors.NewParsingError("failed to tokenize HTML document", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(marked))
	if err != nil {
		return nil, stats, apperrors.NewParsingError("failed to parse HTML document", err)
	}

	body := selectBody(doc, sel)
	if body.Length() == 0 {
		return nil, stats, apperrors.NewNotFoundError("table body", apperrors.ErrSourceTableNotFound).
			WithContext("selector", sel.String())
	}

	records := make([]domain.Bank, 0)
	body.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) == 0 {
			stats.Headers++
			return
		}
		if !IsDataRow(cells) {
			stats.Skipped++
			slog.Debug("Skipped row", slog.Int("row", i), slog.Any("cells", cells))
			return
		}

		value, _ := parseMarketCap(cells[marketCapCell])
		records = append(records, domain.Bank{
			Name:         cells[nameCell],
			MarketCapUSD: value,
		})
		stats.Rows++
	})

	return domain.NewTable(records), stats, nil
}

// IsDataRow reports whether cleaned row cells describe a bank
func IsDataRow(cells []string) bool {
	if len(cells) < minDataCells {
		return false
	}
	_, err := parseMarketCap(cells[marketCapCell])
	return err == nil
}

// selectBody returns the tbody chosen by sel, or an empty selection
func selectBody(doc *goquery.Document, sel TableSelector) *goquery.Selection {
	if sel.Caption == "" {
		return doc.Find("tbody[" + writtenBodyAttr + "]").Eq(sel.Index)
	}

	want := strings.ToLower(strings.TrimSpace(sel.Caption))
	var match *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		label := table.ChildrenFiltered("caption").First().Text()
		if label == "" {
			label = table.PrevAllFiltered("h1, h2, h3, h4, h5, h6, div.mw-heading").First().Text()
		}
		if strings.Contains(strings.ToLower(label), want) {
			match = table.Find("tbody").First()
			return false
		}
		return true
	})
	if match == nil {
		return doc.Find("tbody").Slice(0, 0)
	}
	return match
}

// markWrittenBodies copies page token by token, tagging every tbody start
// tag with writtenBodyAttr. All other tokens are copied unmodified.
func markWrittenBodies(page string) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(page) + 256)

	z := html.NewTokenizer(strings.NewReader(page))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return out.Bytes(), nil
		}

		raw := append([]byte(nil), z.Raw()...)
		if tt == html.StartTagToken {
			tok := z.Token()
			if tok.DataAtom == atom.Tbody {
				tok.Attr = append(tok.Attr, html.Attribute{Key: writtenBodyAttr})
				out.WriteString(tok.String())
				continue
			}
		}
		out.Write(raw)
	}
}

// cellTexts returns the cleaned text of every td in row
func cellTexts(row *goquery.Selection) []string {
	tds := row.ChildrenFiltered("td")
	cells := make([]string, 0, tds.Length())
	tds.Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, cleanCell(td.Text()))
	})
	return cells
}

// cleanCell trims surrounding whitespace and drops embedded newlines
func cleanCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "")
}

func parseMarketCap(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
