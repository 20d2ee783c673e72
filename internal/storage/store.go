package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	apperrors "bankscli/internal/errors"
	"bankscli/pkg/contracts/domain"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// Store wraps a single SQLite connection
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// ResultSet holds the materialised output of one query
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

// Open opens (creating if needed) the database file at path
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.NewStorageError("failed to create database directory "+dir, err)
		}
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open database "+path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to connect to database "+path, err)
	}

	// one connection keeps every statement on the same SQLite handle
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger.Debug("Database opened", slog.String("path", path))

	return &Store{db: db, path: path, logger: logger.With("component", "storage")}, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// ReplaceTable drops name if it exists, recreates it from the table's
// columns and inserts every record in order. Running it twice leaves the
// same rows behind.
func (s *Store) ReplaceTable(ctx context.Context, name string, table *domain.Table) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	columns := table.Columns()
	quoted := quoteIdent(name)

	defs := make([]string, len(columns))
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = quoteIdent(c)
		defs[i] = cols[i] + " " + columnType(c)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return apperrors.NewStorageError("failed to drop table "+name, err)
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE "+quoted+" ("+strings.Join(defs, ", ")+")"); err != nil {
		return apperrors.NewStorageError("failed to create table "+name, err)
	}

	placeholders := strings.TrimRight(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+quoted+" ("+strings.Join(cols, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return apperrors.NewStorageError("failed to prepare insert into "+name, err)
	}
	defer stmt.Close()

	for i := 0; i < table.Len(); i++ {
		if _, err := stmt.ExecContext(ctx, table.Values(i)...); err != nil {
			return apperrors.NewStorageError("failed to insert row", err).WithContext("row", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit table "+name, err)
	}

	s.logger.DebugContext(ctx, "Table replaced",
		slog.String("table", name),
		slog.Int("rows", table.Len()))

	return nil
}

// Query runs statement and returns every row. BLOB values are returned as strings.
func (s *Store) Query(ctx context.Context, statement string) (*ResultSet, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, apperrors.NewQueryError(statement, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperrors.NewQueryError(statement, err)
	}

	result := &ResultSet{Columns: columns, Rows: make([][]interface{}, 0)}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, apperrors.NewQueryError(statement, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryError(statement, err)
	}

	return result, nil
}

// Close closes the connection. It is safe to call more than once.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return apperrors.NewStorageError("failed to close database "+s.path, err)
	}
	return nil
}

// checkOpen fails with sql.ErrConnDone once Close has been called
func (s *Store) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.NewStorageError("database "+s.path+" is closed", sql.ErrConnDone)
	}
	return nil
}

// columnType maps a table column to its SQLite storage class
func columnType(column string) string {
	if column == domain.ColumnName {
		return "TEXT"
	}
	return "REAL"
}

// quoteIdent quotes an SQL identifier
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
