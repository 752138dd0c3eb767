package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/claude/notionfit/internal/models"
	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/scoring"
	"github.com/claude/notionfit/internal/sync"
)

// sleepSession accumulates one night's stage segments. Unspecified Asleep
// segments are tracked apart from the stage buckets; they overlap the
// staged time on some sources and would double-count if summed in.
type sleepSession struct {
	start, end time.Time
	awake      float64 // hours per bucket
	deep       float64
	core       float64
	rem        float64
	asleep     float64
	source     string
}

// IngestSleep processes a per-stage sleep export: group segments by
// calendar day, score each night, upsert the sleep page, and push the
// score onto the habit tracker.
func (s *Service) IngestSleep(ctx context.Context, payload models.SleepPayload) (*Result, error) {
	var points []models.SleepStagePoint
	for _, m := range payload.Data.Metrics {
		points = append(points, m.Data...)
	}
	if len(points) == 0 {
		return nil, invalid("data.metrics", "no sleep stage samples")
	}

	res := &Result{Kind: "sleep"}
	sessions := make(map[string]*sleepSession)

	for _, p := range points {
		if p.StartDate.IsZero() {
			res.warn(s.log, "sleep sample without start date skipped")
			res.Skipped++
			continue
		}
		key := p.StartDate.DateKey()
		sess := sessions[key]
		if sess == nil {
			sess = &sleepSession{start: p.StartDate.Time, end: p.EndDate.Time}
			sessions[key] = sess
		}
		if p.StartDate.Before(sess.start) {
			sess.start = p.StartDate.Time
		}
		if p.EndDate.After(sess.end) {
			sess.end = p.EndDate.Time
		}
		if sess.source == "" {
			sess.source = p.Source
		}

		stage, known := models.NormalizeSleepStage(p.Value)
		if !known {
			res.warn(s.log, fmt.Sprintf("unknown sleep stage %q skipped", p.Value))
			res.Skipped++
			continue
		}
		switch stage {
		case models.SleepStageAwake:
			sess.awake += p.Qty
		case models.SleepStageDeep:
			sess.deep += p.Qty
		case models.SleepStageREM:
			sess.rem += p.Qty
		case models.SleepStageCore:
			sess.core += p.Qty
		case models.SleepStageAsleep:
			sess.asleep += p.Qty
		case models.SleepStageInBed:
			// In Bed overlaps the stage segments, not an extra bucket.
		}
	}

	for _, key := range sortedKeys(sessions) {
		sess := sessions[key]
		total := sess.deep + sess.core + sess.rem
		score := scoring.ScoreBaseline(scoring.StageDurations{
			TotalSleepHours: total,
			DeepHours:       sess.deep,
			REMHours:        sess.rem,
			AwakeHours:      sess.awake,
		})

		source := sess.source
		if source == "" {
			source = "Unknown"
		}

		props := notion.Properties{
			"开始时间":      notion.DateTime(sess.start),
			"结束时间":      notion.DateTime(sess.end),
			"总睡眠时长(小时)": notion.Number(round1(total)),
			"深睡时长(小时)":  notion.Number(round1(sess.deep)),
			"浅睡时长(小时)":  notion.Number(round1(sess.core)),
			"REM时长(小时)": notion.Number(round1(sess.rem)),
			"清醒时长(小时)":  notion.Number(round1(sess.awake)),
			"睡眠评分":      notion.NumberPtr(floatPtr(score.Score)),
			"数据源":       notion.Select(source),
		}

		_, created, err := s.rec.UpsertByDate(ctx, sync.SleepCollection(s.cfg.SleepDatabaseID), key, props)
		if err != nil {
			return res, fmt.Errorf("sleep record %s: %w", key, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		res.Dates = append(res.Dates, key)

		if err := s.prop.PropagateSleepScore(ctx, key, score); err != nil {
			res.warn(s.log, fmt.Sprintf("sleep score propagation failed for %s", key), "error", err)
		}
		s.log.Info("sleep night ingested", "date", key, "score", *score.Score, "total_hours", round1(total))
	}

	s.record(ctx, res, firstDate(res.Dates))
	return res, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstDate(dates []string) string {
	if len(dates) == 0 {
		return ""
	}
	return dates[0]
}

func floatPtr(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
