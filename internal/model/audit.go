package model

import "time"

// AuditRecord is an immutable snapshot pair proving what an applied
// adjustment changed. Reversal re-applies Before as the new current
// state and writes a fresh record pointing back here; history is
// append-only and records are never edited or deleted.
type AuditRecord struct {
	ID        string // timestamp-derived, unique
	Timestamp time.Time
	UserText  string
	Intent    Intent
	Before    string // complete TOML plan snapshot
	After     string // complete TOML plan snapshot
	RevertOf  string // id of the record this one reverts, if any
}

// AuditIDFormat is the layout audit ids are derived from.
const AuditIDFormat = "20060102T150405.000000000"

// NewAuditID derives a record id from a timestamp.
func NewAuditID(t time.Time) string {
	return t.UTC().Format(AuditIDFormat)
}
