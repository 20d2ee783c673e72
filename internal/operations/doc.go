// Package operations orchestrates one run of the banks ETL.
//
// A Pipeline is an ordered list of steps sharing an OperationState:
//
//	extract    fetch the ranking page and parse the target table
//	transform  load exchange rates and add the GBP, EUR and INR columns
//	load_csv   overwrite the CSV export
//	load_xlsx  overwrite the workbook export (only when configured)
//	connect    open the SQLite database
//	load_db    replace the database table
//	query      run the verification queries and print their results
//
// Steps run sequentially and the first failure aborts the run with an
// OperationError naming the step. There are no retries. After each step
// succeeds its checkpoint line is appended to the progress log, so a
// complete run leaves seven lines behind.
//
// Every step gets its own OpenTelemetry span, and step durations, row
// counts and sink writes are recorded through infrastructure.PipelineMetrics.
//
// Example usage:
//
//	p, err := operations.NewPipeline(operations.NewConfig(cfg, paths), operations.Dependencies{
//	    Fetcher:  fetcher,
//	    Progress: infrastructure.NewProgressLogger(paths.ProgressLog),
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err
//	}
//	state, err := p.Run(ctx)
package operations
