package ingest

import (
	"context"
	"fmt"

	"github.com/claude/notionfit/internal/models"
	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/scoring"
	"github.com/claude/notionfit/internal/sync"
)

// IngestHealth processes a combined daily export: score the night with the
// tiered strategy, evaluate the lenient goals, upsert the health record,
// and refresh the habit tracker.
func (s *Service) IngestHealth(ctx context.Context, payload models.HealthExport) (*Result, error) {
	if payload.Metadata == nil || payload.Metadata.Date == "" {
		return nil, invalid("metadata.date", "missing")
	}
	var day models.HAETime
	if err := day.Parse(payload.Metadata.Date); err != nil {
		return nil, invalid("metadata.date", err.Error())
	}
	dateKey := day.DateKey()

	res := &Result{Kind: "health", Dates: []string{dateKey}}

	var sleepScore scoring.ScoreResult
	var sleepStatus *scoring.SleepStatus
	if sa := payload.SleepAnalysis; sa != nil {
		sleepScore = scoring.ScoreTiered(scoring.SleepMetrics{
			TotalHours: deref(sa.TotalHours),
			AwakeMin:   deref(sa.AwakeTimeMin),
			DeepMin:    deref(sa.DeepSleepMin),
			REMMin:     deref(sa.RemSleepMin),
		})
		sleepStatus = &scoring.SleepStatus{Score: sleepScore.Score, Rating: sleepScore.Rating}
	}

	var totals *scoring.DailyTotals
	var activity *scoring.ActivityTotals
	if ds := payload.DailySummary; ds != nil {
		totals = &scoring.DailyTotals{
			Steps:            deref(ds.Steps),
			ExerciseMinutes:  deref(ds.ExerciseMinutes),
			ActiveEnergyKcal: deref(ds.ActiveEnergyKcal),
		}
		activity = &scoring.ActivityTotals{
			Steps:            totals.Steps,
			ExerciseMinutes:  totals.ExerciseMinutes,
			ActiveEnergyKcal: totals.ActiveEnergyKcal,
		}
	}
	ev := scoring.Evaluate(totals, s.cfg.LenientTargets, scoring.ModeLenient)

	props := healthProps(&payload, sleepScore)
	_, created, err := s.rec.UpsertByDate(ctx, sync.HealthCollection(s.cfg.HealthDatabaseID), dateKey, props)
	if err != nil {
		return res, fmt.Errorf("health record %s: %w", dateKey, err)
	}
	if created {
		res.Created++
	} else {
		res.Updated++
	}

	if err := s.prop.PropagateDailySummary(ctx, dateKey, sleepStatus, activity, ev); err != nil {
		res.warn(s.log, fmt.Sprintf("daily summary propagation failed for %s", dateKey), "error", err)
	}
	s.log.Info("health export ingested", "date", dateKey, "device", payload.Metadata.DeviceName, "goal_status", ev.Status)

	s.record(ctx, res, dateKey)
	return res, nil
}

// healthProps builds the property set of the daily health record. Only
// fields present in the export are written, so repeated partial exports
// never blank out earlier values.
func healthProps(p *models.HealthExport, sleepScore scoring.ScoreResult) notion.Properties {
	props := notion.Properties{}
	if p.Metadata.DeviceName != "" {
		props["Device"] = notion.RichText(p.Metadata.DeviceName)
	}

	if b := p.Body; b != nil {
		setNum(props, "身高(cm)", b.Height)
		setNum(props, "体重(kg)", b.Weight)
	}

	if ds := p.DailySummary; ds != nil {
		setNum(props, "步数(步)", ds.Steps)
		setNum(props, "步行跑步距离(km)", ds.DistanceWalkingRunning)
		setNum(props, "活动能量(kcal)", ds.ActiveEnergyKcal)
		setNum(props, "锻炼分钟数(分钟)", ds.ExerciseMinutes)
		setNum(props, "站立分钟数", ds.StandHours)
	}

	if sa := p.SleepAnalysis; sa != nil {
		setNum(props, "睡眠时长(小时)", sa.TotalHours)
		setNum(props, "深度睡眠(分钟)", sa.DeepSleepMin)
		setNum(props, "REM睡眠(分钟)", sa.RemSleepMin)
		setNum(props, "核心睡眠(分钟)", sa.CoreSleepMin)
		setNum(props, "清醒时间(分钟)", sa.AwakeTimeMin)

		props["睡眠评分(100分制)"] = notion.NumberPtr(floatPtr(sleepScore.Score))
		props["睡眠质量评级"] = notion.RichText(sleepScore.Rating)
		if sleepScore.Score != nil {
			props["实际睡眠时长(小时)"] = notion.Number(sleepScore.ActualSleepHours)
			props["深度睡眠占比(%)"] = notion.Number(sleepScore.Ratios.DeepSleep)
			props["REM睡眠占比(%)"] = notion.Number(sleepScore.Ratios.REMSleep)
			props["清醒时间占比(%)"] = notion.Number(sleepScore.Ratios.AwakeTime)
			props["睡眠效率(%)"] = notion.Number(sleepScore.Ratios.Efficiency)
		}
	}

	if v := p.Vitals; v != nil {
		setNum(props, "静息心率(bpm)", v.RestingHeartRate)
		setNum(props, "最大心率(bpm)", v.MaxHRToday)
		setNum(props, "心率变异性(ms)", v.HRVms)
		setNum(props, "呼吸频率(次/分钟)", v.RespiratoryRate)
		setNum(props, "血氧饱和度(%)", v.BloodOxygenAvg)
	}

	if f := p.FitnessDetail; f != nil {
		setNum(props, "平均步行速度(km/h)", f.AvgWalkingSpeed)
		setNum(props, "平均跑步速度(km/h)", f.AvgRunningSpeed)
		setNum(props, "步行稳定性(%)", f.WalkingSteadiness)
		setNum(props, "骑行距离(km)", f.CyclingDistance)
	}
	return props
}

func setNum(props notion.Properties, name string, v *float64) {
	if v != nil {
		props[name] = notion.Number(*v)
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
