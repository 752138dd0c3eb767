package sync

import (
	"context"
	"log/slog"

	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/scoring"
)

// Propagator fans a day's derived values out across collections: workout
// totals onto the health record and habit tracker, sleep scores onto the
// habit tracker, and relation links from workout pages back to the day's
// health record.
type Propagator struct {
	client *notion.Client
	rec    *Reconciler
	habit  Collection
	health Collection
	strict scoring.Targets
	log    *slog.Logger
}

// NewPropagator builds a Propagator over the habit and health collections.
// strict is the goal set used when workout sessions drive the evaluation.
func NewPropagator(client *notion.Client, rec *Reconciler, habitDB, healthDB string, strict scoring.Targets, log *slog.Logger) *Propagator {
	return &Propagator{
		client: client,
		rec:    rec,
		habit:  HabitCollection(habitDB),
		health: HealthCollection(healthDB),
		strict: strict,
		log:    log,
	}
}

// PropagateWorkoutTotals applies a day's workout totals: evaluate the
// strict goals, patch the health record, refresh the habit tracker using
// whatever sleep score it already holds, and link each workout page to the
// health record. A failed health patch aborts; habit and link failures are
// logged and skipped so one bad page cannot block the rest.
func (p *Propagator) PropagateWorkoutTotals(ctx context.Context, dateKey string, totals scoring.DailyTotals, workoutPageIDs []string) error {
	ev := scoring.Evaluate(&totals, p.strict, scoring.ModeStrict)

	status := "❌ 今日运动未全部达标"
	if ev.Achieved != nil && *ev.Achieved {
		status = "✅ 今日运动全部达标！"
	}

	healthID, _, err := p.rec.UpsertByDate(ctx, p.health, dateKey, notion.Properties{
		PropWorkoutCount:     notion.Number(float64(totals.WorkoutCount)),
		PropWorkoutMinutes:   notion.Number(totals.ExerciseMinutes),
		PropWorkoutSteps:     notion.Number(totals.Steps),
		PropWorkoutEnergy:    notion.Number(totals.ActiveEnergyKcal),
		PropGoalSteps:        notion.Checkbox(ev.Steps.Achieved),
		PropGoalMinutes:      notion.Checkbox(ev.ExerciseMinutes.Achieved),
		PropGoalEnergy:       notion.Checkbox(ev.ActiveEnergy.Achieved),
		PropGoalWorkoutCount: notion.Checkbox(ev.WorkoutCount.Achieved),
		PropGoalAll:          notion.Checkbox(ev.Achieved != nil && *ev.Achieved),
		PropGoalStatus:       notion.RichText(status),
	})
	if err != nil {
		return err
	}

	sleep := p.habitSleepStatus(ctx, dateKey)
	activity := &scoring.ActivityTotals{
		Steps:            totals.Steps,
		ExerciseMinutes:  totals.ExerciseMinutes,
		ActiveEnergyKcal: totals.ActiveEnergyKcal,
	}
	_, _, err = p.rec.UpsertByDate(ctx, p.habit, dateKey, notion.Properties{
		PropExerciseOK:   notion.Checkbox(ev.Achieved != nil && *ev.Achieved),
		PropSteps:        notion.Number(totals.Steps),
		PropExerciseMin:  notion.Number(totals.ExerciseMinutes),
		PropActiveEnergy: notion.Number(totals.ActiveEnergyKcal),
		PropDailySummary: notion.RichText(scoring.DailySummaryLine(sleep, activity)),
		PropHealthAdvice: notion.RichText(scoring.DailyAdvice(sleep, activity)),
	})
	if err != nil {
		p.log.Warn("habit update failed after workout totals", "date", dateKey, "error", err)
	}

	for _, id := range workoutPageIDs {
		if _, err := p.client.UpdatePage(ctx, id, notion.Properties{
			PropHealthRelation: notion.Relation(healthID),
		}); err != nil {
			p.log.Warn("workout relation link failed", "workout_page", id, "health_page", healthID, "error", err)
		}
	}
	return nil
}

// PropagateSleepScore writes a night's score onto the habit tracker and
// regenerates the summary and advice from the activity numbers the page
// already holds.
func (p *Propagator) PropagateSleepScore(ctx context.Context, dateKey string, res scoring.ScoreResult) error {
	activity := p.habitActivity(ctx, dateKey)
	sleep := &scoring.SleepStatus{Score: res.Score, Rating: res.Rating}

	_, _, err := p.rec.UpsertByDate(ctx, p.habit, dateKey, notion.Properties{
		PropSleepScore:   notion.NumberPtr(scoreNum(res.Score)),
		PropSleepRating:  notion.RichText(res.Rating),
		PropDailySummary: notion.RichText(scoring.DailySummaryLine(sleep, activity)),
		PropHealthAdvice: notion.RichText(scoring.DailyAdvice(sleep, activity)),
	})
	return err
}

// PropagateDailySummary refreshes the habit tracker from a combined daily
// export: sleep score, activity numbers, and the lenient goal verdict.
func (p *Propagator) PropagateDailySummary(ctx context.Context, dateKey string, sleep *scoring.SleepStatus, activity *scoring.ActivityTotals, ev scoring.Evaluation) error {
	props := notion.Properties{
		PropExerciseOK:   notion.Checkbox(ev.Achieved != nil && *ev.Achieved),
		PropDailySummary: notion.RichText(scoring.DailySummaryLine(sleep, activity)),
		PropHealthAdvice: notion.RichText(scoring.DailyAdvice(sleep, activity)),
	}
	if sleep != nil {
		props[PropSleepScore] = notion.NumberPtr(scoreNum(sleep.Score))
		props[PropSleepRating] = notion.RichText(sleep.Rating)
	}
	if activity != nil {
		props[PropSteps] = notion.Number(activity.Steps)
		props[PropExerciseMin] = notion.Number(activity.ExerciseMinutes)
		props[PropActiveEnergy] = notion.Number(activity.ActiveEnergyKcal)
	}

	_, _, err := p.rec.UpsertByDate(ctx, p.habit, dateKey, props)
	return err
}

// habitSleepStatus reads the sleep score the habit page already carries.
// Returns nil when the page or score is missing so the summary reads as
// no data.
func (p *Propagator) habitSleepStatus(ctx context.Context, dateKey string) *scoring.SleepStatus {
	page, err := p.rec.FindByDate(ctx, p.habit, dateKey)
	if err != nil {
		p.log.Warn("habit sleep read-back failed", "date", dateKey, "error", err)
		return nil
	}
	if page == nil {
		return nil
	}
	num := page.NumberProp(PropSleepScore)
	if num == nil {
		return nil
	}
	score := int(*num)
	rating := page.RichTextProp(PropSleepRating)
	if rating == "" {
		rating = scoring.RatingNoData
	}
	return &scoring.SleepStatus{Score: &score, Rating: rating}
}

// habitActivity reads the activity numbers the habit page already carries.
func (p *Propagator) habitActivity(ctx context.Context, dateKey string) *scoring.ActivityTotals {
	page, err := p.rec.FindByDate(ctx, p.habit, dateKey)
	if err != nil {
		p.log.Warn("habit activity read-back failed", "date", dateKey, "error", err)
		return nil
	}
	if page == nil {
		return nil
	}
	steps := page.NumberProp(PropSteps)
	minutes := page.NumberProp(PropExerciseMin)
	energy := page.NumberProp(PropActiveEnergy)
	if steps == nil && minutes == nil && energy == nil {
		return nil
	}
	a := &scoring.ActivityTotals{}
	if steps != nil {
		a.Steps = *steps
	}
	if minutes != nil {
		a.ExerciseMinutes = *minutes
	}
	if energy != nil {
		a.ActiveEnergyKcal = *energy
	}
	return a
}

func scoreNum(s *int) *float64 {
	if s == nil {
		return nil
	}
	v := float64(*s)
	return &v
}
