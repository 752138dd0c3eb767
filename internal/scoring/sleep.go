// Package scoring holds the pure derivation logic: sleep quality scores,
// daily exercise goal evaluation, and the summary/advice text generators.
package scoring

import "math"

// Quality ratings written to the Notion databases. The database schemas
// predate this service, so the values stay in Chinese.
const (
	RatingExcellent = "优秀"
	RatingGood      = "良好"
	RatingFair      = "一般"
	RatingPoor      = "不佳"
	RatingUnknown   = "未知"
	RatingNoData    = "无数据"
)

// SleepMetrics is the pre-aggregated nightly input for the tiered scorer:
// total time in bed plus stage minutes, as reported by the combined export.
type SleepMetrics struct {
	TotalHours float64 // time in bed
	AwakeMin   float64
	DeepMin    float64
	REMMin     float64
}

// StageDurations is the per-stage-series input for the baseline scorer,
// accumulated from individual sleep stage segments. TotalSleepHours is
// deep + core + REM (awake time excluded).
type StageDurations struct {
	TotalSleepHours float64
	DeepHours       float64
	REMHours        float64
	AwakeHours      float64
}

// Breakdown holds the five weighted sub-scores of the tiered strategy.
type Breakdown struct {
	Duration   int `json:"duration"`   // 0-30
	DeepSleep  int `json:"deepSleep"`  // 0-25
	REMSleep   int `json:"remSleep"`   // 0-25
	AwakeTime  int `json:"awakeTime"`  // 0-10
	Efficiency int `json:"efficiency"` // 0-10
}

// Ratios holds the percentage inputs behind a score, rounded to one decimal.
type Ratios struct {
	DeepSleep  float64 `json:"deepSleep"`
	REMSleep   float64 `json:"remSleep"`
	AwakeTime  float64 `json:"awakeTime"`
	Efficiency float64 `json:"efficiency"`
}

// ScoreResult is the outcome of either scoring strategy. Score is nil when
// there was no sleep data to score.
type ScoreResult struct {
	Score            *int      `json:"score"`
	Rating           string    `json:"rating"`
	Breakdown        Breakdown `json:"breakdown"`
	Ratios           Ratios    `json:"ratios"`
	ActualSleepHours float64   `json:"actualSleepHours"`
}

// Rating maps a score to its quality rating. A nil score means no data.
func Rating(score *int) string {
	switch {
	case score == nil:
		return RatingNoData
	case *score >= 90:
		return RatingExcellent
	case *score >= 80:
		return RatingGood
	case *score >= 60:
		return RatingFair
	case *score >= 0:
		return RatingPoor
	default:
		return RatingUnknown
	}
}

// ScoreTiered scores a night of sleep on the five-part weighted scale:
// duration 30, deep-sleep ratio 25, REM ratio 25, awake ratio 10, and
// sleep efficiency 10, each with stepped full/partial/zero thresholds.
// Deep and REM ratios are taken against actual sleep time (in bed minus
// awake); awake ratio and efficiency against total time in bed.
func ScoreTiered(m SleepMetrics) ScoreResult {
	if m.TotalHours == 0 {
		return ScoreResult{Rating: RatingNoData}
	}

	totalMinInBed := m.TotalHours * 60
	actualSleepMin := totalMinInBed - m.AwakeMin
	actualSleepHours := actualSleepMin / 60

	var b Breakdown

	// Duration: best at 7-9h of actual sleep, tapering to 0 outside 5-11h.
	switch {
	case actualSleepHours >= 7 && actualSleepHours <= 9:
		b.Duration = 30
	case (actualSleepHours >= 6 && actualSleepHours < 7) || (actualSleepHours > 9 && actualSleepHours <= 10):
		b.Duration = 20
	case (actualSleepHours >= 5 && actualSleepHours < 6) || (actualSleepHours > 10 && actualSleepHours <= 11):
		b.Duration = 10
	}

	// Deep sleep: best at 15-25% of actual sleep.
	deepRatio := 0.0
	if actualSleepMin > 0 {
		deepRatio = m.DeepMin / actualSleepMin * 100
	}
	switch {
	case deepRatio >= 15 && deepRatio <= 25:
		b.DeepSleep = 25
	case (deepRatio >= 10 && deepRatio < 15) || (deepRatio > 25 && deepRatio <= 30):
		b.DeepSleep = 15
	case (deepRatio >= 5 && deepRatio < 10) || (deepRatio > 30 && deepRatio <= 35):
		b.DeepSleep = 5
	}

	// REM: best at 20-25% of actual sleep.
	remRatio := 0.0
	if actualSleepMin > 0 {
		remRatio = m.REMMin / actualSleepMin * 100
	}
	switch {
	case remRatio >= 20 && remRatio <= 25:
		b.REMSleep = 25
	case (remRatio >= 15 && remRatio < 20) || (remRatio > 25 && remRatio <= 30):
		b.REMSleep = 15
	case (remRatio >= 10 && remRatio < 15) || (remRatio > 30 && remRatio <= 35):
		b.REMSleep = 5
	}

	// Awake time: best below 5% of time in bed.
	awakeRatio := 0.0
	if totalMinInBed > 0 {
		awakeRatio = m.AwakeMin / totalMinInBed * 100
	}
	switch {
	case awakeRatio < 5:
		b.AwakeTime = 10
	case awakeRatio <= 10:
		b.AwakeTime = 5
	}

	// Efficiency: actual sleep over time in bed, best above 90%.
	efficiency := 0.0
	if totalMinInBed > 0 {
		efficiency = actualSleepMin / totalMinInBed * 100
	}
	switch {
	case efficiency > 90:
		b.Efficiency = 10
	case efficiency >= 85:
		b.Efficiency = 5
	}

	total := b.Duration + b.DeepSleep + b.REMSleep + b.AwakeTime + b.Efficiency
	return ScoreResult{
		Score:     &total,
		Rating:    Rating(&total),
		Breakdown: b,
		Ratios: Ratios{
			DeepSleep:  round1(deepRatio),
			REMSleep:   round1(remRatio),
			AwakeTime:  round1(awakeRatio),
			Efficiency: round1(efficiency),
		},
		ActualSleepHours: round1(actualSleepHours),
	}
}

// ScoreBaseline scores a night built from raw stage segments: start at 80
// and apply linear penalties for deviation from the same target ranges the
// tiered scorer uses, clamped to [0,100]. Ratios here are taken against
// total sleep time, matching how the stage series is accumulated.
func ScoreBaseline(s StageDurations) ScoreResult {
	score := 80.0
	total := s.TotalSleepHours

	if total < 7 {
		score -= (7 - total) * 5
	} else if total > 9 {
		score -= (total - 9) * 3
	}

	deepPct, remPct, awakePct := 0.0, 0.0, 0.0
	if total > 0 {
		deepPct = s.DeepHours / total * 100
		remPct = s.REMHours / total * 100
		awakePct = s.AwakeHours / total * 100
	}

	if deepPct < 15 {
		score -= (15 - deepPct) * 2
	} else if deepPct > 25 {
		score -= deepPct - 25
	}

	if remPct < 20 {
		score -= (20 - remPct) * 2
	} else if remPct > 25 {
		score -= remPct - 25
	}

	if awakePct > 5 {
		score -= (awakePct - 5) * 3
	}

	final := int(math.Max(0, math.Min(100, math.Round(score))))
	return ScoreResult{
		Score:  &final,
		Rating: Rating(&final),
		Ratios: Ratios{
			DeepSleep: round1(deepPct),
			REMSleep:  round1(remPct),
			AwakeTime: round1(awakePct),
		},
		ActualSleepHours: round1(total),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
