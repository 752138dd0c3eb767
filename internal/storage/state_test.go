package storage

import (
	"context"
	"testing"
	"time"
)

// TestRecordAndRecent verifies round-tripping ingest records through the
// log, newest first.
func TestRecordAndRecent(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	for i, kind := range []string{"sleep", "workout", "health"} {
		err := store.RecordIngest(ctx, IngestRecord{
			Kind:       kind,
			Date:       "2026-01-15",
			Created:    1,
			Warnings:   []string{"sample warning"},
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordIngest %s: %v", kind, err)
		}
	}

	recs, err := store.RecentIngests(ctx, 2)
	if err != nil {
		t.Fatalf("RecentIngests: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Kind != "health" || recs[1].Kind != "workout" {
		t.Errorf("order = %s, %s; want health, workout", recs[0].Kind, recs[1].Kind)
	}
	if recs[0].ID == "" {
		t.Error("ID not assigned")
	}
	if len(recs[0].Warnings) != 1 || recs[0].Warnings[0] != "sample warning" {
		t.Errorf("Warnings = %v", recs[0].Warnings)
	}
	if !recs[0].ReceivedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("ReceivedAt = %v", recs[0].ReceivedAt)
	}
}

// TestRecentEmpty verifies an empty log returns no rows and no error.
func TestRecentEmpty(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	recs, err := store.RecentIngests(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentIngests: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len = %d, want 0", len(recs))
	}
}
