package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// DefaultQueries returns the verification queries run after loading table
func DefaultQueries(table string) []string {
	return []string{
		fmt.Sprintf("SELECT * FROM %s", table),
		fmt.Sprintf("SELECT AVG(MC_GBP_Billion) FROM %s", table),
		fmt.Sprintf("SELECT Name FROM %s LIMIT 5", table),
	}
}

// Runner executes queries in order and prints each result
type Runner struct {
	store  *Store
	out    io.Writer
	logger *slog.Logger
}

// NewRunner creates a runner printing to out
func NewRunner(store *Store, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: store, out: out, logger: logger.With("component", "query_runner")}
}

// RunAll executes statements sequentially. The first failing statement aborts
// the run and no later statement is executed.
func (r *Runner) RunAll(ctx context.Context, statements []string) ([]*ResultSet, error) {
	results := make([]*ResultSet, 0, len(statements))

	for _, statement := range statements {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := time.Now()
		rs, err := r.store.Query(ctx, statement)
		if err != nil {
			return results, err
		}

		r.logger.DebugContext(ctx, "Query executed",
			slog.String("statement", statement),
			slog.Int("rows", len(rs.Rows)),
			slog.Duration("duration", time.Since(start)))

		if err := PrintResult(r.out, statement, rs); err != nil {
			return results, err
		}
		results = append(results, rs)
	}

	return results, nil
}

// PrintResult writes the statement followed by the result as an aligned
// table with a leading row index column.
func PrintResult(w io.Writer, statement string, rs *ResultSet) error {
	if _, err := fmt.Fprintln(w, statement); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\t"+strings.Join(rs.Columns, "\t")+"\t")
	for i, row := range rs.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		fmt.Fprintln(tw, strconv.Itoa(i)+"\t"+strings.Join(cells, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)
	return err
}

// formatCell renders a scanned SQLite value
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
