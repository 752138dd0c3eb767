package mcp

import (
	"context"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/notionfit/internal/sync"
)

// resolveDate validates a YYYY-MM-DD date, defaulting to today (UTC).
func resolveDate(s string) (string, error) {
	if s == "" {
		return time.Now().UTC().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", err
	}
	return s, nil
}

// --- Tool definitions ---

var toolGetDailySummary = mcp.NewTool("get_daily_summary",
	mcp.WithDescription("Get one day's habit tracker entry: sleep score and rating, activity totals, goal verdict, and the generated summary and advice text."),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetSleepRecord = mcp.NewTool("get_sleep_record",
	mcp.WithDescription("Get one night's sleep record: session timing, stage durations in hours, score, and data source."),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetHealthRecord = mcp.NewTool("get_health_record",
	mcp.WithDescription("Get one day's health record: activity totals, sleep analysis, vitals, and workout day totals."),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List the workout sessions recorded on a day, including duration, energy, distance, pace, and heart rate aggregates."),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

var toolListRecentIngests = mcp.NewTool("list_recent_ingests",
	mcp.WithDescription("List recently processed exports from the local ingest log: kind, date, page counts, and warnings."),
	mcp.WithString("limit", mcp.Description("Maximum entries to return. Defaults to 20.")),
)

// --- Tool handlers ---

func (h *handlers) getDailySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	page, err := h.rec.FindByDate(ctx, sync.HabitCollection(h.dbs.Habit), date)
	if err != nil {
		h.log.Error("mcp get_daily_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if page == nil {
		return mcp.NewToolResultError("no habit entry for " + date), nil
	}

	return toolJSON(map[string]any{
		"date":             date,
		"sleep_score":      page.NumberProp(sync.PropSleepScore),
		"sleep_rating":     page.RichTextProp(sync.PropSleepRating),
		"steps":            page.NumberProp(sync.PropSteps),
		"exercise_minutes": page.NumberProp(sync.PropExerciseMin),
		"active_energy":    page.NumberProp(sync.PropActiveEnergy),
		"exercise_goal_ok": page.CheckboxProp(sync.PropExerciseOK),
		"summary":          page.RichTextProp(sync.PropDailySummary),
		"advice":           page.RichTextProp(sync.PropHealthAdvice),
	})
}

func (h *handlers) getSleepRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	page, err := h.rec.FindByDate(ctx, sync.SleepCollection(h.dbs.Sleep), date)
	if err != nil {
		h.log.Error("mcp get_sleep_record", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if page == nil {
		return mcp.NewToolResultError("no sleep record for " + date), nil
	}

	return toolJSON(map[string]any{
		"date":        date,
		"start":       page.DateProp("开始时间"),
		"end":         page.DateProp("结束时间"),
		"total_hours": page.NumberProp("总睡眠时长(小时)"),
		"deep_hours":  page.NumberProp("深睡时长(小时)"),
		"light_hours": page.NumberProp("浅睡时长(小时)"),
		"rem_hours":   page.NumberProp("REM时长(小时)"),
		"awake_hours": page.NumberProp("清醒时长(小时)"),
		"score":       page.NumberProp("睡眠评分"),
		"source":      page.SelectProp("数据源"),
	})
}

func (h *handlers) getHealthRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	page, err := h.rec.FindByDate(ctx, sync.HealthCollection(h.dbs.Health), date)
	if err != nil {
		h.log.Error("mcp get_health_record", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if page == nil {
		return mcp.NewToolResultError("no health record for " + date), nil
	}

	return toolJSON(map[string]any{
		"date":                  date,
		"title":                 page.TitleProp("名称"),
		"steps":                 page.NumberProp("步数(步)"),
		"active_energy_kcal":    page.NumberProp("活动能量(kcal)"),
		"exercise_minutes":      page.NumberProp("锻炼分钟数(分钟)"),
		"sleep_hours":           page.NumberProp("睡眠时长(小时)"),
		"sleep_score":           page.NumberProp("睡眠评分(100分制)"),
		"sleep_rating":          page.RichTextProp("睡眠质量评级"),
		"resting_heart_rate":    page.NumberProp("静息心率(bpm)"),
		"hrv_ms":                page.NumberProp("心率变异性(ms)"),
		"workout_count":         page.NumberProp(sync.PropWorkoutCount),
		"workout_total_minutes": page.NumberProp(sync.PropWorkoutMinutes),
		"workout_total_energy":  page.NumberProp(sync.PropWorkoutEnergy),
		"goals_all_met":         page.CheckboxProp(sync.PropGoalAll),
		"goal_status":           page.RichTextProp(sync.PropGoalStatus),
	})
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	pages, err := h.rec.QueryByDate(ctx, sync.Collection{
		DatabaseID:   h.dbs.Workout,
		DateProperty: "日期",
	}, date, 100)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	workouts := make([]map[string]any, 0, len(pages))
	for i := range pages {
		p := &pages[i]
		workouts = append(workouts, map[string]any{
			"title":            p.TitleProp("名称"),
			"type":             p.SelectProp("运动类型"),
			"start":            p.DateProp("日期"),
			"duration_minutes": p.NumberProp("持续时间(分钟)"),
			"steps":            p.NumberProp("步数"),
			"energy_kcal":      p.NumberProp("活动能量(kcal)"),
			"distance_km":      p.NumberProp("距离(公里)"),
			"pace":             p.RichTextProp("平均配速(分:秒/公里)"),
			"avg_heart_rate":   p.NumberProp("平均心率(次/分)"),
			"max_heart_rate":   p.NumberProp("最大心率(次/分)"),
			"workout_id":       p.RichTextProp("Workout ID"),
		})
	}
	return toolJSON(map[string]any{"date": date, "workouts": workouts})
}

func (h *handlers) listRecentIngests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("ingest log is disabled"), nil
	}
	limit := 20
	if v := req.GetString("limit", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := h.store.RecentIngests(ctx, limit)
	if err != nil {
		h.log.Error("mcp list_recent_ingests", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(recs)
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("encode failed: " + err.Error()), nil
	}
	return result, nil
}
