package sync

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/notion/notiontest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFake(t *testing.T) (*notiontest.Server, *notion.Client) {
	t.Helper()
	f := notiontest.New()
	t.Cleanup(f.Close)
	return f, notion.NewClient("test-token", notion.WithBaseURL(f.URL()))
}

// TestUpsertByDateCreates verifies a new date creates a page with the date
// property and formatted title filled in.
func TestUpsertByDateCreates(t *testing.T) {
	f, client := newFake(t)
	rec := NewReconciler(client, testLogger())
	col := HabitCollection("habit-db")

	id, created, err := rec.UpsertByDate(context.Background(), col, "2026-01-15", notion.Properties{
		PropSteps: notion.Number(9500),
	})
	if err != nil {
		t.Fatalf("UpsertByDate: %v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}

	page := f.Page(id)
	if page == nil {
		t.Fatal("page not stored")
	}
	if got := page.Text("名称"); got != "2026-01-15打卡" {
		t.Errorf("title = %q, want 2026-01-15打卡", got)
	}
	if got := page.DateStart("Date"); got != "2026-01-15" {
		t.Errorf("Date = %q", got)
	}
	if n, ok := page.Number(PropSteps); !ok || n != 9500 {
		t.Errorf("steps = %v %v", n, ok)
	}
}

// TestUpsertByDateUpdates verifies a second upsert for the same date
// patches the existing page instead of creating a duplicate, and leaves
// properties it does not mention alone.
func TestUpsertByDateUpdates(t *testing.T) {
	f, client := newFake(t)
	rec := NewReconciler(client, testLogger())
	col := HabitCollection("habit-db")
	ctx := context.Background()

	first, created, err := rec.UpsertByDate(ctx, col, "2026-01-15", notion.Properties{
		PropSteps:       notion.Number(5000),
		PropSleepRating: notion.RichText("良好"),
	})
	if err != nil || !created {
		t.Fatalf("first upsert: id=%s created=%v err=%v", first, created, err)
	}

	second, created, err := rec.UpsertByDate(ctx, col, "2026-01-15", notion.Properties{
		PropSteps: notion.Number(9500),
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert created a page, want update")
	}
	if second != first {
		t.Errorf("page id changed: %s -> %s", first, second)
	}
	if got := f.PagesIn("ds-habit-db"); len(got) != 1 {
		t.Errorf("pages in data source = %d, want 1", len(got))
	}

	page := f.Page(first)
	if n, _ := page.Number(PropSteps); n != 9500 {
		t.Errorf("steps = %v, want 9500", n)
	}
	if got := page.Text(PropSleepRating); got != "良好" {
		t.Errorf("rating clobbered: %q", got)
	}
}

// TestUpsertByDateSeparateDays verifies adjacent dates land on separate
// pages; the day window is half-open.
func TestUpsertByDateSeparateDays(t *testing.T) {
	_, client := newFake(t)
	rec := NewReconciler(client, testLogger())
	col := HealthCollection("health-db")
	ctx := context.Background()

	a, _, err := rec.UpsertByDate(ctx, col, "2026-01-15", notion.Properties{})
	if err != nil {
		t.Fatalf("upsert day one: %v", err)
	}
	b, created, err := rec.UpsertByDate(ctx, col, "2026-01-16", notion.Properties{})
	if err != nil {
		t.Fatalf("upsert day two: %v", err)
	}
	if !created || a == b {
		t.Errorf("day two reused day one's page (created=%v)", created)
	}
}

// TestFindByDateMatchesDatetime verifies a page stored with a full
// timestamp is still found by its date key.
func TestFindByDateMatchesDatetime(t *testing.T) {
	f, client := newFake(t)
	id := f.Seed("ds-sleep-db", map[string]any{
		"Date": map[string]any{"date": map[string]any{"start": "2026-01-15T23:10:00+08:00"}},
	})

	rec := NewReconciler(client, testLogger())
	page, err := rec.FindByDate(context.Background(), SleepCollection("sleep-db"), "2026-01-15")
	if err != nil {
		t.Fatalf("FindByDate: %v", err)
	}
	if page == nil || page.ID != id {
		t.Errorf("page = %+v, want %s", page, id)
	}
}

// TestFindByDateNone verifies an empty day returns nil without error.
func TestFindByDateNone(t *testing.T) {
	_, client := newFake(t)
	rec := NewReconciler(client, testLogger())
	page, err := rec.FindByDate(context.Background(), SleepCollection("sleep-db"), "2026-01-15")
	if err != nil {
		t.Fatalf("FindByDate: %v", err)
	}
	if page != nil {
		t.Errorf("page = %+v, want nil", page)
	}
}

// TestUpsertByDateBadKey verifies a malformed date key is rejected before
// any page is written.
func TestUpsertByDateBadKey(t *testing.T) {
	f, client := newFake(t)
	rec := NewReconciler(client, testLogger())
	_, _, err := rec.UpsertByDate(context.Background(), HabitCollection("habit-db"), "15/01/2026", notion.Properties{})
	if err == nil {
		t.Fatal("expected error for bad date key")
	}
	if f.Creates() != 0 {
		t.Errorf("creates = %d, want 0", f.Creates())
	}
}

// TestSleepCollectionNoTitle verifies sleep pages are created without a
// title property.
func TestSleepCollectionNoTitle(t *testing.T) {
	f, client := newFake(t)
	rec := NewReconciler(client, testLogger())
	id, _, err := rec.UpsertByDate(context.Background(), SleepCollection("sleep-db"), "2026-01-15", notion.Properties{
		"睡眠评分": notion.Number(82),
	})
	if err != nil {
		t.Fatalf("UpsertByDate: %v", err)
	}
	if f.Page(id).Has("名称") {
		t.Error("sleep page has a title property")
	}
}
