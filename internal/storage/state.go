// Package storage keeps a local operational log of processed exports in
// SQLite. Notion holds the records themselves; this log only answers
// "what arrived and when" without a round trip.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS ingest_log (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	date        TEXT NOT NULL,
	created     INTEGER NOT NULL,
	updated     INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	warnings    TEXT NOT NULL,
	received_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ingest_log_date ON ingest_log(date);
CREATE INDEX IF NOT EXISTS idx_ingest_log_received ON ingest_log(received_at);
`

// IngestRecord is one processed export.
type IngestRecord struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"` // sleep, workout, health
	Date       string    `json:"date"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Warnings   []string  `json:"warnings,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Store is the SQLite-backed ingest log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state db: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordIngest appends one processed export to the log. A zero ID and
// ReceivedAt are filled in.
func (s *Store) RecordIngest(ctx context.Context, rec IngestRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_log (id, kind, date, created, updated, skipped, warnings, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, rec.Date, rec.Created, rec.Updated, rec.Skipped,
		strings.Join(rec.Warnings, "\n"), rec.ReceivedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record ingest: %w", err)
	}
	return nil
}

// RecentIngests returns the newest entries, most recent first.
func (s *Store) RecentIngests(ctx context.Context, limit int) ([]IngestRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, date, created, updated, skipped, warnings, received_at
		 FROM ingest_log ORDER BY received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent ingests: %w", err)
	}
	defer rows.Close()

	var out []IngestRecord
	for rows.Next() {
		var rec IngestRecord
		var warnings, received string
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Date, &rec.Created, &rec.Updated,
			&rec.Skipped, &warnings, &received); err != nil {
			return nil, fmt.Errorf("scan ingest row: %w", err)
		}
		if warnings != "" {
			rec.Warnings = strings.Split(warnings, "\n")
		}
		rec.ReceivedAt, _ = time.Parse(time.RFC3339, received)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
