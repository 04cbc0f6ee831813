// Package store persists extraction and comparison results in SQLite,
// keyed by caller-owned version identifiers. The comparison core never
// touches this package; persistence is a downstream concern.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/formlens/formdiff/internal/diff"
	"github.com/formlens/formdiff/internal/extract"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("store: record not found")

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	id               TEXT PRIMARY KEY,
	path             TEXT NOT NULL,
	page_count       INTEGER NOT NULL,
	field_count      INTEGER NOT NULL,
	created_at       TIMESTAMP NOT NULL,
	fields_json      TEXT NOT NULL,
	meta_json        TEXT NOT NULL,
	diagnostics_json TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS comparisons (
	id          TEXT PRIMARY KEY,
	source_id   TEXT NOT NULL REFERENCES extractions(id),
	target_id   TEXT NOT NULL REFERENCES extractions(id),
	created_at  TIMESTAMP NOT NULL,
	result_json TEXT NOT NULL
);
`

// Store wraps the SQLite database holding extraction and comparison
// records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and
// ensures the schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ExtractionRecord is one persisted extraction, identified by a
// caller-owned version id.
type ExtractionRecord struct {
	ID        string
	Path      string
	CreatedAt time.Time
	Result    *extract.Result
}

// ComparisonRecord is one persisted comparison between two extraction
// versions.
type ComparisonRecord struct {
	ID        string
	SourceID  string
	TargetID  string
	CreatedAt time.Time
	Result    *diff.ComparisonResult
}

// SaveExtraction inserts an extraction record.
func (s *Store) SaveExtraction(ctx context.Context, rec *ExtractionRecord) error {
	fields, err := json.Marshal(rec.Result.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	meta, err := json.Marshal(rec.Result.Meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	diags, err := json.Marshal(rec.Result.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions
			(id, path, page_count, field_count, created_at, fields_json, meta_json, diagnostics_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Path, rec.Result.Meta.PageCount, len(rec.Result.Fields),
		rec.CreatedAt.UTC(), string(fields), string(meta), string(diags))
	if err != nil {
		return fmt.Errorf("insert extraction %s: %w", rec.ID, err)
	}
	return nil
}

// GetExtraction loads an extraction record by id.
func (s *Store) GetExtraction(ctx context.Context, id string) (*ExtractionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, created_at, fields_json, meta_json, diagnostics_json
		 FROM extractions WHERE id = ?`, id)

	rec := &ExtractionRecord{Result: &extract.Result{}}
	var fields, meta, diags string
	err := row.Scan(&rec.ID, &rec.Path, &rec.CreatedAt, &fields, &meta, &diags)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("extraction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query extraction %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(fields), &rec.Result.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(meta), &rec.Result.Meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(diags), &rec.Result.Diagnostics); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics for %s: %w", id, err)
	}
	return rec, nil
}

// SaveComparison inserts a comparison record.
func (s *Store) SaveComparison(ctx context.Context, rec *ComparisonRecord) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal comparison result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparisons (id, source_id, target_id, created_at, result_json)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.SourceID, rec.TargetID, rec.CreatedAt.UTC(), string(result))
	if err != nil {
		return fmt.Errorf("insert comparison %s: %w", rec.ID, err)
	}
	return nil
}

// GetComparison loads a comparison record by id.
func (s *Store) GetComparison(ctx context.Context, id string) (*ComparisonRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_id, target_id, created_at, result_json
		 FROM comparisons WHERE id = ?`, id)

	rec := &ComparisonRecord{}
	var result string
	err := row.Scan(&rec.ID, &rec.SourceID, &rec.TargetID, &rec.CreatedAt, &result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comparison %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query comparison %s: %w", id, err)
	}

	rec.Result = &diff.ComparisonResult{}
	if err := json.Unmarshal([]byte(result), rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshal comparison result for %s: %w", id, err)
	}
	return rec, nil
}
