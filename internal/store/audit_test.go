package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/runway/internal/model"
)

func testLog(t *testing.T) *AuditLog {
	t.Helper()
	log, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func testRecord(ts time.Time, userText string) model.AuditRecord {
	return model.AuditRecord{
		ID:        model.NewAuditID(ts),
		Timestamp: ts,
		UserText:  userText,
		Intent: model.Intent{
			Action:     model.ActionPayoff,
			Entity:     "Slate",
			EntityType: model.EntityDebt,
			Confidence: 0.95,
		},
		Before: "[[debt]]\nname = \"Slate\"\nbalance = \"450\"\n",
		After:  "[[debt]]\nname = \"Slate\"\nbalance = \"0\"\n",
	}
}

func TestAppendGetRoundtrip(t *testing.T) {
	log := testLog(t)

	ts := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := testRecord(ts, "paid off slate")
	if err := log.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := log.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for an existing id")
	}
	if got.UserText != rec.UserText || got.Before != rec.Before || got.After != rec.After {
		t.Errorf("got = %+v, want %+v", got, rec)
	}
	if got.Intent.Action != model.ActionPayoff || got.Intent.Entity != "Slate" {
		t.Errorf("intent = %+v, want payoff on Slate", got.Intent)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %s, want %s", got.Timestamp, ts)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	log := testLog(t)

	got, err := log.Get("20200101T000000.000000000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestAppendDuplicateIDFails(t *testing.T) {
	log := testLog(t)

	ts := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := testRecord(ts, "first")
	if err := log.Append(rec); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := log.Append(rec); err == nil {
		t.Error("duplicate Append succeeded, want error")
	}

	// The original row is untouched.
	got, err := log.Get(rec.ID)
	if err != nil || got == nil {
		t.Fatalf("Get after duplicate: %v, %v", got, err)
	}
	if got.UserText != "first" {
		t.Errorf("user text = %q, want the original row preserved", got.UserText)
	}
}

func TestListNewestFirst(t *testing.T) {
	log := testLog(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := log.Append(testRecord(base.Add(time.Duration(i)*time.Second), "entry")); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	records, err := log.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.After(records[i-1].Timestamp) {
			t.Errorf("records out of order at %d: %s after %s", i, records[i].Timestamp, records[i-1].Timestamp)
		}
	}

	limited, err := log.List(2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
	if !limited[0].Timestamp.Equal(records[0].Timestamp) {
		t.Error("limit did not keep the newest records")
	}
}

func TestCount(t *testing.T) {
	log := testLog(t)

	if n, err := log.Count(); err != nil || n != 0 {
		t.Fatalf("Count = %d, %v, want 0", n, err)
	}
	ts := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := log.Append(testRecord(ts, "entry")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n, err := log.Count(); err != nil || n != 1 {
		t.Fatalf("Count = %d, %v, want 1", n, err)
	}
}
