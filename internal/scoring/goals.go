package scoring

// Mode selects how strictly daily exercise goals are judged.
type Mode int

const (
	// ModeLenient counts a metric as achieved at 80% of its target and the
	// day as achieved when at least two of three metrics pass. Used for the
	// health-summary evaluation, which tolerates incomplete sensor data.
	ModeLenient Mode = iota
	// ModeStrict requires every metric at 100% of target, including the
	// workout count. Used when workout sessions drive the evaluation.
	ModeStrict
)

// Goal status strings written to the 达标状态 property.
const (
	StatusAchieved    = "达标"
	StatusNotAchieved = "未达标"
	StatusNoData      = "无数据"
)

// Targets are the configured daily exercise goals. ActiveEnergyKcal differs
// between modes: the lenient evaluation uses a lower energy target.
type Targets struct {
	Steps            float64
	ExerciseMinutes  float64
	ActiveEnergyKcal float64
	WorkoutCount     int
}

// DailyTotals are the observed activity totals for one day.
type DailyTotals struct {
	Steps            float64
	ExerciseMinutes  float64
	ActiveEnergyKcal float64
	WorkoutCount     int
}

// MetricResult is one metric's actual value against its target.
type MetricResult struct {
	Actual   float64 `json:"actual"`
	Target   float64 `json:"target"`
	Achieved bool    `json:"achieved"`
}

// Evaluation is the outcome of judging a day's totals against the targets.
// Achieved is nil when there was no data to judge.
type Evaluation struct {
	Achieved        *bool        `json:"achieved"`
	Status          string       `json:"status"`
	Steps           MetricResult `json:"steps"`
	ExerciseMinutes MetricResult `json:"exerciseMinutes"`
	ActiveEnergy    MetricResult `json:"activeEnergy"`
	WorkoutCount    MetricResult `json:"workoutCount"`
}

// Evaluate judges one day's activity totals against the targets under the
// given mode. A nil totals means no activity data arrived for the day.
func Evaluate(totals *DailyTotals, targets Targets, mode Mode) Evaluation {
	if totals == nil {
		return Evaluation{Status: StatusNoData}
	}

	threshold := 1.0
	if mode == ModeLenient {
		threshold = 0.8
	}

	ev := Evaluation{
		Steps:           metric(totals.Steps, targets.Steps, threshold),
		ExerciseMinutes: metric(totals.ExerciseMinutes, targets.ExerciseMinutes, threshold),
		ActiveEnergy:    metric(totals.ActiveEnergyKcal, targets.ActiveEnergyKcal, threshold),
	}

	var achieved bool
	switch mode {
	case ModeStrict:
		ev.WorkoutCount = metric(float64(totals.WorkoutCount), float64(targets.WorkoutCount), threshold)
		achieved = ev.Steps.Achieved && ev.ExerciseMinutes.Achieved &&
			ev.ActiveEnergy.Achieved && ev.WorkoutCount.Achieved
	default:
		passed := 0
		for _, m := range []MetricResult{ev.Steps, ev.ExerciseMinutes, ev.ActiveEnergy} {
			if m.Achieved {
				passed++
			}
		}
		achieved = passed >= 2
	}

	ev.Achieved = &achieved
	ev.Status = StatusNotAchieved
	if achieved {
		ev.Status = StatusAchieved
	}
	return ev
}

func metric(actual, target, threshold float64) MetricResult {
	return MetricResult{
		Actual:   actual,
		Target:   target,
		Achieved: actual > 0 && actual >= target*threshold,
	}
}
