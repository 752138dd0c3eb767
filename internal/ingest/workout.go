package ingest

import (
	"context"
	"fmt"

	"github.com/claude/notionfit/internal/geo"
	"github.com/claude/notionfit/internal/models"
	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/scoring"
)

// dayWorkouts collects one day's created pages and running totals.
type dayWorkouts struct {
	pageIDs []string
	totals  scoring.DailyTotals
}

// IngestWorkout processes a workout export: create one page per session,
// then push each day's totals onto the health record and habit tracker and
// link the sessions back to the health record.
func (s *Service) IngestWorkout(ctx context.Context, payload models.WorkoutPayload) (*Result, error) {
	workouts := payload.Data.Workouts
	if len(workouts) == 0 {
		return nil, invalid("data.workouts", "no workouts")
	}

	dsID, err := s.rec.DataSource(ctx, s.cfg.WorkoutDatabaseID)
	if err != nil {
		return nil, err
	}

	res := &Result{Kind: "workout"}
	days := make(map[string]*dayWorkouts)

	for _, w := range workouts {
		if w.ID == "" {
			res.warn(s.log, fmt.Sprintf("workout %q without id skipped", w.Name))
			res.Skipped++
			continue
		}
		if w.Start == nil || w.Start.IsZero() {
			res.warn(s.log, fmt.Sprintf("workout %q without start time skipped", w.Name))
			res.Skipped++
			continue
		}
		dateKey := w.Start.DateKey()
		durationMin := w.Duration / 60
		steps := geo.SumQty(w.StepCount)

		page, err := s.client.CreatePage(ctx, dsID, workoutProps(&w, dateKey, durationMin, steps))
		if err != nil {
			res.warn(s.log, fmt.Sprintf("workout page %q failed", w.ID), "error", err)
			res.Skipped++
			continue
		}
		res.Created++
		res.Pages = append(res.Pages, page.ID)
		s.log.Info("workout ingested", "date", dateKey, "name", w.Name, "id", w.ID, "page", page.ID)

		day := days[dateKey]
		if day == nil {
			day = &dayWorkouts{}
			days[dateKey] = day
		}
		day.pageIDs = append(day.pageIDs, page.ID)
		day.totals.Steps += steps
		day.totals.ExerciseMinutes += durationMin
		if w.ActiveEnergyBurned != nil {
			day.totals.ActiveEnergyKcal += w.ActiveEnergyBurned.Qty
		}
		day.totals.WorkoutCount++
	}

	for _, dateKey := range sortedKeys(days) {
		day := days[dateKey]
		if err := s.prop.PropagateWorkoutTotals(ctx, dateKey, day.totals, day.pageIDs); err != nil {
			res.warn(s.log, fmt.Sprintf("workout totals propagation failed for %s", dateKey), "error", err)
			continue
		}
		res.Dates = append(res.Dates, dateKey)
	}

	s.record(ctx, res, firstDate(res.Dates))
	return res, nil
}

// workoutProps builds the property set of one workout page.
func workoutProps(w *models.Workout, dateKey string, durationMin, steps float64) notion.Properties {
	props := notion.Properties{
		"名称":        notion.Title(fmt.Sprintf("%s %s %s", dateKey, w.Name, w.Start.UTC().Format("15:04:05"))),
		"日期":        notion.DateTime(w.Start.Time),
		"运动类型":      notion.Select(w.Name),
		"持续时间(分钟)":  notion.Number(round1(durationMin)),
		"Workout ID": notion.RichText(w.ID),
	}
	if w.Location != "" {
		props["位置"] = notion.RichText(w.Location)
	}
	if len(w.StepCount) > 0 {
		props["步数"] = notion.Number(steps)
	}
	if w.ActiveEnergyBurned != nil {
		props["活动能量(kcal)"] = notion.Number(round1(w.ActiveEnergyBurned.Qty))
	}
	if w.Temperature != nil {
		props["温度(°C)"] = notion.Number(w.Temperature.Qty)
	}
	if w.Humidity != nil {
		props["湿度(%)"] = notion.Number(w.Humidity.Qty)
	}
	if w.Intensity != nil {
		props["强度(kcal/hr·kg)"] = notion.Number(round1(w.Intensity.Qty))
	}

	if len(w.HeartRateData) > 0 {
		var sum float64
		minHR, maxHR := w.HeartRateData[0].Min, w.HeartRateData[0].Max
		for _, p := range w.HeartRateData {
			sum += p.Avg
			if p.Min < minHR {
				minHR = p.Min
			}
			if p.Max > maxHR {
				maxHR = p.Max
			}
		}
		props["平均心率(次/分)"] = notion.Number(round1(sum / float64(len(w.HeartRateData))))
		props["最大心率(次/分)"] = notion.Number(maxHR)
		props["最小心率(次/分)"] = notion.Number(minHR)
	}

	if distanceKm := geo.RouteDistanceKm(w.Route); distanceKm > 0 {
		props["距离(公里)"] = notion.Number(round2(distanceKm))
		if pace, ok := geo.FormatPace(distanceKm, durationMin); ok {
			props["平均配速(分:秒/公里)"] = notion.RichText(pace)
		}
	}
	return props
}
