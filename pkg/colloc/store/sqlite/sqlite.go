package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
	"github.com/cognicore/colloc/pkg/colloc/pmi"
	"github.com/cognicore/colloc/pkg/colloc/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// PRAGMAs apply per connection
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	input TEXT NOT NULL,
	keyword TEXT NOT NULL,
	window_size INTEGER NOT NULL,
	output_type TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT
);

CREATE TABLE IF NOT EXISTS collocates (
	run_id TEXT NOT NULL,
	table_name TEXT NOT NULL,
	seq INTEGER NOT NULL,
	file_name TEXT NOT NULL,
	key_word TEXT NOT NULL,
	window_size INTEGER NOT NULL,
	collocate_term TEXT NOT NULL,
	collocate_frequency INTEGER NOT NULL,
	text_frequency INTEGER NOT NULL,
	mi_score REAL NOT NULL,
	PRIMARY KEY(run_id, table_name, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// BeginRun records the start of a run
func (s *sqliteStore) BeginRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run id is required: %w", internalerr.ErrInvalidInput)
	}

	const stmt = `
INSERT INTO runs (id, input, keyword, window_size, output_type, started_at)
VALUES (?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		r.ID,
		r.Input,
		r.Keyword,
		r.Window,
		r.OutputType,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// FinishRun stamps the completion time of a run
func (s *sqliteStore) FinishRun(ctx context.Context, runID string, finishedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339Nano), runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	return nil
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, runID string) (store.Run, error) {
	const query = `
SELECT id, input, keyword, window_size, output_type, started_at, finished_at
FROM runs WHERE id = ?;
`
	var (
		r        store.Run
		started  string
		finished sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, runID).Scan(
		&r.ID, &r.Input, &r.Keyword, &r.Window, &r.OutputType, &started, &finished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return store.Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if finished.Valid {
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
			return store.Run{}, fmt.Errorf("parse finished_at: %w", err)
		}
	}

	return r, nil
}

// SaveResult stores the rows of one output table, keeping their order
func (s *sqliteStore) SaveResult(ctx context.Context, runID, table string, records []pmi.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM collocates WHERE run_id = ? AND table_name = ?`, runID, table); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO collocates (run_id, table_name, seq, file_name, key_word, window_size,
	collocate_term, collocate_frequency, text_frequency, mi_score)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			runID, table, i,
			r.FileName, r.Keyword, r.Window,
			r.Collocate, r.CollocateFreq, r.TextFreq, r.MI,
		); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// RunRecords returns the rows of one output table in their saved order
func (s *sqliteStore) RunRecords(ctx context.Context, runID, table string) ([]pmi.Record, error) {
	const query = `
SELECT file_name, key_word, window_size, collocate_term, collocate_frequency, text_frequency, mi_score
FROM collocates
WHERE run_id = ? AND table_name = ?
ORDER BY seq;
`
	rows, err := s.db.QueryContext(ctx, query, runID, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []pmi.Record
	for rows.Next() {
		var r pmi.Record
		if err := rows.Scan(&r.FileName, &r.Keyword, &r.Window, &r.Collocate,
			&r.CollocateFreq, &r.TextFreq, &r.MI); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RunTables lists the output tables saved for a run
func (s *sqliteStore) RunTables(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT table_name FROM collocates WHERE run_id = ? ORDER BY table_name`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
