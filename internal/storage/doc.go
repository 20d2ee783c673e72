// Package storage persists the enriched bank table to SQLite and runs the
// verification queries against it.
//
// The database is opened once per run with Open and closed with Close. The
// pure-Go modernc.org/sqlite driver is used so the binary needs no cgo.
//
//	store, err := storage.Open(ctx, paths.DatabaseFile, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := store.ReplaceTable(ctx, "Largest_banks", table); err != nil {
//	    return err
//	}
//	runner := storage.NewRunner(store, os.Stdout, logger)
//	_, err = runner.RunAll(ctx, storage.DefaultQueries("Largest_banks"))
package storage
