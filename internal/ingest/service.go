// Package ingest turns Health Auto Export payloads into Notion pages:
// decode, derive scores and totals, upsert the day's records, and fan the
// results out across collections.
package ingest

import (
	"context"
	"log/slog"
	"math"

	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/scoring"
	"github.com/claude/notionfit/internal/storage"
	"github.com/claude/notionfit/internal/sync"
)

// Result summarizes one processed export.
type Result struct {
	Kind     string   `json:"kind"`
	Dates    []string `json:"dates,omitempty"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped,omitempty"`
	Pages    []string `json:"pages,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) warn(log *slog.Logger, msg string, args ...any) {
	log.Warn(msg, args...)
	r.Warnings = append(r.Warnings, msg)
}

// Config wires the service to its Notion databases and goal targets.
type Config struct {
	SleepDatabaseID   string
	WorkoutDatabaseID string
	HealthDatabaseID  string
	LenientTargets    scoring.Targets
}

// Service is the ingest pipeline shared by the three endpoints.
type Service struct {
	client *notion.Client
	rec    *sync.Reconciler
	prop   *sync.Propagator
	store  *storage.Store // nil disables the local log
	cfg    Config
	log    *slog.Logger
}

// NewService builds the ingest service. store may be nil.
func NewService(client *notion.Client, rec *sync.Reconciler, prop *sync.Propagator, store *storage.Store, cfg Config, log *slog.Logger) *Service {
	return &Service{client: client, rec: rec, prop: prop, store: store, cfg: cfg, log: log}
}

// record appends the result to the local ingest log. Log failures never
// fail the ingest.
func (s *Service) record(ctx context.Context, res *Result, date string) {
	if s.store == nil {
		return
	}
	err := s.store.RecordIngest(ctx, storage.IngestRecord{
		Kind:     res.Kind,
		Date:     date,
		Created:  res.Created,
		Updated:  res.Updated,
		Skipped:  res.Skipped,
		Warnings: res.Warnings,
	})
	if err != nil {
		s.log.Warn("ingest log write failed", "kind", res.Kind, "date", date, "error", err)
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
