// Package sync reconciles incoming records against the Notion collections:
// date-keyed upserts into a single collection, and propagation of daily
// totals and scores across collections.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/notionfit/internal/notion"
)

// Collection describes one Notion database the service writes to.
// TitleFormat is nil for collections whose pages carry no title.
type Collection struct {
	DatabaseID    string
	DateProperty  string
	TitleProperty string
	TitleFormat   func(dateKey string) string
}

// HabitCollection is the habit tracker, one page per day titled "{date}打卡".
func HabitCollection(databaseID string) Collection {
	return Collection{
		DatabaseID:    databaseID,
		DateProperty:  "Date",
		TitleProperty: "名称",
		TitleFormat:   func(d string) string { return d + "打卡" },
	}
}

// HealthCollection is the daily health record, titled "{date}记录".
func HealthCollection(databaseID string) Collection {
	return Collection{
		DatabaseID:    databaseID,
		DateProperty:  "Date",
		TitleProperty: "名称",
		TitleFormat:   func(d string) string { return d + "记录" },
	}
}

// SleepCollection holds one untitled page per night.
func SleepCollection(databaseID string) Collection {
	return Collection{
		DatabaseID:   databaseID,
		DateProperty: "Date",
	}
}

// Reconciler upserts pages keyed by calendar date. Data source IDs are
// resolved once per database and cached for the life of the process.
type Reconciler struct {
	client *notion.Client
	log    *slog.Logger

	mu          sync.Mutex
	dataSources map[string]string // database ID -> data source ID
}

// NewReconciler builds a Reconciler on the given client.
func NewReconciler(client *notion.Client, log *slog.Logger) *Reconciler {
	return &Reconciler{
		client:      client,
		log:         log,
		dataSources: make(map[string]string),
	}
}

// DataSource resolves a database ID to its primary data source ID,
// caching the answer.
func (r *Reconciler) DataSource(ctx context.Context, databaseID string) (string, error) {
	r.mu.Lock()
	if id, ok := r.dataSources[databaseID]; ok {
		r.mu.Unlock()
		return id, nil
	}
	r.mu.Unlock()

	id, err := r.client.PrimaryDataSource(ctx, databaseID)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.dataSources[databaseID] = id
	r.mu.Unlock()
	return id, nil
}

// QueryByDate returns up to limit pages whose date property falls on the
// given day, the half-open window [dateKey, dateKey+1d).
func (r *Reconciler) QueryByDate(ctx context.Context, col Collection, dateKey string, limit int) ([]notion.Page, error) {
	dsID, err := r.DataSource(ctx, col.DatabaseID)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		return nil, fmt.Errorf("bad date key %q: %w", dateKey, err)
	}
	next := day.AddDate(0, 0, 1).Format("2006-01-02")

	res, err := r.client.QueryDataSource(ctx, dsID, notion.QueryRequest{
		Filter: map[string]any{
			"and": []any{
				map[string]any{
					"property": col.DateProperty,
					"date":     map[string]any{"on_or_after": dateKey},
				},
				map[string]any{
					"property": col.DateProperty,
					"date":     map[string]any{"before": next},
				},
			},
		},
		PageSize: limit,
	})
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

// FindByDate returns the page whose date property falls on the given day,
// or nil when none exists.
func (r *Reconciler) FindByDate(ctx context.Context, col Collection, dateKey string) (*notion.Page, error) {
	pages, err := r.QueryByDate(ctx, col, dateKey, 1)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return &pages[0], nil
}

// UpsertByDate updates the day's page with props, creating it first when
// none exists. On create the date property and title are filled in; on
// update only props are sent, so unrelated properties stay untouched.
//
// Find and create are not atomic. Two concurrent upserts for the same new
// date can both miss the lookup and create duplicate pages; the exporter
// sends serially, so this is accepted.
func (r *Reconciler) UpsertByDate(ctx context.Context, col Collection, dateKey string, props notion.Properties) (pageID string, created bool, err error) {
	page, err := r.FindByDate(ctx, col, dateKey)
	if err != nil {
		return "", false, err
	}

	if page != nil {
		if _, err := r.client.UpdatePage(ctx, page.ID, props); err != nil {
			return "", false, err
		}
		r.log.Debug("page updated", "database", col.DatabaseID, "date", dateKey, "page", page.ID)
		return page.ID, false, nil
	}

	dsID, err := r.DataSource(ctx, col.DatabaseID)
	if err != nil {
		return "", false, err
	}

	full := notion.Properties{col.DateProperty: notion.Date(dateKey)}
	if col.TitleProperty != "" && col.TitleFormat != nil {
		full[col.TitleProperty] = notion.Title(col.TitleFormat(dateKey))
	}
	for k, v := range props {
		full[k] = v
	}

	page, err = r.client.CreatePage(ctx, dsID, full)
	if err != nil {
		return "", false, err
	}
	r.log.Debug("page created", "database", col.DatabaseID, "date", dateKey, "page", page.ID)
	return page.ID, true, nil
}
