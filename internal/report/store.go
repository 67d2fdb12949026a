// Package report persists the results of resolution passes in SQLite.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/pipeline"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS passes (
		id          TEXT PRIMARY KEY,
		path        TEXT NOT NULL,
		finished_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resolutions (
		pass_id  TEXT NOT NULL REFERENCES passes(id),
		seq      INTEGER NOT NULL,
		file     TEXT NOT NULL,
		symbol   TEXT NOT NULL,
		type     TEXT NOT NULL,
		is_error INTEGER NOT NULL,
		PRIMARY KEY (pass_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS diagnostics (
		pass_id TEXT NOT NULL REFERENCES passes(id),
		seq     INTEGER NOT NULL,
		code    TEXT NOT NULL,
		file    TEXT NOT NULL,
		symbol  TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (pass_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS dependencies (
		pass_id     TEXT NOT NULL REFERENCES passes(id),
		from_symbol TEXT NOT NULL,
		to_symbol   TEXT NOT NULL,
		PRIMARY KEY (pass_id, from_symbol, to_symbol)
	)`,
}

// Run is everything recorded for one pass.
type Run struct {
	ID           uuid.UUID
	Path         string
	FinishedAt   time.Time
	Resolutions  []pipeline.Resolution
	Diagnostics  []*diagnostics.DiagnosticError
	Dependencies []pipeline.Dependency
}

// PassSummary is one row of the passes table.
type PassSummary struct {
	ID          uuid.UUID
	Path        string
	FinishedAt  time.Time
	Resolutions int
	Errors      int
}

// Store is a report database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening report %s: %w", path, err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating report schema in %s: %w", path, err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordPass writes a run in a single transaction.
func (s *Store) RecordPass(ctx context.Context, run Run) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	id := run.ID.String()
	if _, err = tx.ExecContext(ctx, `INSERT INTO passes (id, path, finished_at) VALUES (?, ?, ?)`,
		id, run.Path, run.FinishedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("recording pass %s: %w", id, err)
	}
	for i, r := range run.Resolutions {
		if _, err = tx.ExecContext(ctx, `INSERT INTO resolutions (pass_id, seq, file, symbol, type, is_error) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, r.File, r.Symbol, r.Type, r.Error); err != nil {
			return fmt.Errorf("recording resolution of %s: %w", r.Symbol, err)
		}
	}
	for i, d := range run.Diagnostics {
		if _, err = tx.ExecContext(ctx, `INSERT INTO diagnostics (pass_id, seq, code, file, symbol, message) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, string(d.Code), d.File, d.Symbol, d.Message); err != nil {
			return fmt.Errorf("recording diagnostic %s: %w", d.Code, err)
		}
	}
	for _, dep := range run.Dependencies {
		if _, err = tx.ExecContext(ctx, `INSERT INTO dependencies (pass_id, from_symbol, to_symbol) VALUES (?, ?, ?)`,
			id, dep.From, dep.To); err != nil {
			return fmt.Errorf("recording dependency %s -> %s: %w", dep.From, dep.To, err)
		}
	}
	return tx.Commit()
}

// Passes lists the recorded passes, oldest first.
func (s *Store) Passes(ctx context.Context) ([]PassSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.path, p.finished_at,
			(SELECT COUNT(*) FROM resolutions r WHERE r.pass_id = p.id),
			(SELECT COUNT(*) FROM resolutions r WHERE r.pass_id = p.id AND r.is_error)
		FROM passes p ORDER BY p.finished_at, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PassSummary
	for rows.Next() {
		var (
			ps     PassSummary
			id, at string
		)
		if err := rows.Scan(&id, &ps.Path, &at, &ps.Resolutions, &ps.Errors); err != nil {
			return nil, err
		}
		if ps.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("pass id %q: %w", id, err)
		}
		if ps.FinishedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("pass %s time %q: %w", id, at, err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// Resolutions returns the resolutions of one pass in their recorded order.
func (s *Store) Resolutions(ctx context.Context, id uuid.UUID) ([]pipeline.Resolution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file, symbol, type, is_error FROM resolutions WHERE pass_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pipeline.Resolution
	for rows.Next() {
		var r pipeline.Resolution
		if err := rows.Scan(&r.File, &r.Symbol, &r.Type, &r.Error); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Diagnostics returns the diagnostics of one pass in their recorded order.
func (s *Store) Diagnostics(ctx context.Context, id uuid.UUID) ([]*diagnostics.DiagnosticError, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, file, symbol, message FROM diagnostics WHERE pass_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*diagnostics.DiagnosticError
	for rows.Next() {
		var (
			d    diagnostics.DiagnosticError
			code string
		)
		if err := rows.Scan(&code, &d.File, &d.Symbol, &d.Message); err != nil {
			return nil, err
		}
		d.Code = diagnostics.ErrorCode(code)
		out = append(out, &d)
	}
	return out, rows.Err()
}
