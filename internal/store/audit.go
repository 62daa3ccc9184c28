// Package store provides the SQLite-backed append-only audit log.
// Every row embeds complete before/after plan snapshots, so any row
// alone is enough to drive a revert; the store deliberately exposes
// no update or delete statements.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/runway/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS audit_log (
	id          TEXT PRIMARY KEY,
	ts          TEXT NOT NULL,
	user_text   TEXT NOT NULL,
	intent      TEXT NOT NULL,
	before_toml TEXT NOT NULL,
	after_toml  TEXT NOT NULL,
	revert_of   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_ts ON audit_log(ts);
`

// AuditLog is the append-only adjustment history.
type AuditLog struct {
	db *sql.DB
}

// Open opens or creates the audit database at the given path.
func Open(dbPath string) (*AuditLog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating audit dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening audit db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &AuditLog{db: db}, nil
}

// Close closes the audit database.
func (l *AuditLog) Close() error {
	return l.db.Close()
}

// Append stores a new audit record. Records are immutable once
// written; a duplicate id is an error, never an overwrite.
func (l *AuditLog) Append(rec model.AuditRecord) error {
	intentJSON, err := json.Marshal(rec.Intent)
	if err != nil {
		return fmt.Errorf("encoding intent: %w", err)
	}

	_, err = l.db.Exec(`INSERT INTO audit_log
		(id, ts, user_text, intent, before_toml, after_toml, revert_of)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.UserText,
		string(intentJSON), rec.Before, rec.After, rec.RevertOf,
	)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}
	return nil
}

// Get returns the record with the given id, or nil when absent.
func (l *AuditLog) Get(id string) (*model.AuditRecord, error) {
	row := l.db.QueryRow(`SELECT id, ts, user_text, intent, before_toml, after_toml, revert_of
		FROM audit_log WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns up to limit records, newest first. limit <= 0 means all.
func (l *AuditLog) List(limit int) ([]model.AuditRecord, error) {
	q := `SELECT id, ts, user_text, intent, before_toml, after_toml, revert_of
		FROM audit_log ORDER BY ts DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = l.db.Query(q+" LIMIT ?", limit)
	} else {
		rows, err = l.db.Query(q)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.AuditRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Count returns the number of audit records.
func (l *AuditLog) Count() (int, error) {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&count)
	return count, err
}

func scanRecord(scan func(dest ...any) error) (*model.AuditRecord, error) {
	var rec model.AuditRecord
	var ts, intentJSON string

	if err := scan(&rec.ID, &ts, &rec.UserText, &intentJSON, &rec.Before, &rec.After, &rec.RevertOf); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parsing audit timestamp: %w", err)
	}
	rec.Timestamp = parsed

	if err := json.Unmarshal([]byte(intentJSON), &rec.Intent); err != nil {
		return nil, fmt.Errorf("decoding intent: %w", err)
	}
	return &rec, nil
}
