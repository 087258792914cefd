// Package store loads and persists the activity cache.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/ridestats/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Cache backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store is an activity cache that sync replaces wholesale.
type Store interface {
	Load(ctx context.Context) ([]model.Activity, error)
	Replace(ctx context.Context, records []json.RawMessage) error
	Close() error
}

// Open returns the store for backend at path.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewJSONFile(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (use %s or %s)", backend, BackendJSON, BackendSQLite)
	}
}

// SQLite keeps validated activities in a SQLite table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLite{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			seq INTEGER PRIMARY KEY,
			provider_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			total_elevation_gain REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Replace validates records and swaps the table contents in one transaction.
func (s *SQLite) Replace(ctx context.Context, records []json.RawMessage) (err error) {
	activities, rejected := ParseRecords(records)
	logRejected("sqlite", rejected)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO activities (provider_id, name, type, start_date, distance, moving_time, total_elevation_gain)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, a := range activities {
		if _, err = stmt.ExecContext(ctx, a.ID, a.Name, a.Type, a.StartDate, a.Distance, a.MovingTime, a.TotalElevationGain); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load returns the stored activities in insertion order.
func (s *SQLite) Load(ctx context.Context) ([]model.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider_id, name, type, start_date, distance, moving_time, total_elevation_gain
		 FROM activities
		 ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var activities []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.StartDate, &a.Distance, &a.MovingTime, &a.TotalElevationGain); err != nil {
			return nil, err
		}
		date, err := ParseDate(a.StartDate)
		if err != nil {
			return nil, fmt.Errorf("stored activity %d: %w", a.ID, err)
		}
		a.Date = date
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("%w: activities table is empty", ErrDataUnavailable)
	}
	return activities, nil
}
