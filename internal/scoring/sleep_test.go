package scoring

import "testing"

// TestScoreTieredNoData verifies that zero time in bed yields a nil score
// and the no-data rating.
func TestScoreTieredNoData(t *testing.T) {
	res := ScoreTiered(SleepMetrics{})
	if res.Score != nil {
		t.Fatalf("Score = %v, want nil", *res.Score)
	}
	if res.Rating != RatingNoData {
		t.Errorf("Rating = %q, want %q", res.Rating, RatingNoData)
	}
}

// TestScoreTieredPerfectNight verifies a night hitting every top band
// scores 100.
func TestScoreTieredPerfectNight(t *testing.T) {
	// 8h in bed, 20min awake: 7.67h actual sleep, 95.8% efficiency.
	// Deep 92min is 20% of actual sleep, REM 101.2min is 22%.
	m := SleepMetrics{TotalHours: 8, AwakeMin: 20, DeepMin: 92, REMMin: 101.2}
	res := ScoreTiered(m)
	if res.Score == nil || *res.Score != 100 {
		t.Fatalf("Score = %v, want 100", res.Score)
	}
	if res.Rating != RatingExcellent {
		t.Errorf("Rating = %q, want %q", res.Rating, RatingExcellent)
	}
	want := Breakdown{Duration: 30, DeepSleep: 25, REMSleep: 25, AwakeTime: 10, Efficiency: 10}
	if res.Breakdown != want {
		t.Errorf("Breakdown = %+v, want %+v", res.Breakdown, want)
	}
}

// TestScoreTieredDurationBands walks the duration sub-score boundaries.
func TestScoreTieredDurationBands(t *testing.T) {
	cases := []struct {
		name        string
		actualHours float64
		want        int
	}{
		{"seven hours", 7, 30},
		{"nine hours", 9, 30},
		{"six hours", 6, 20},
		{"just under seven", 6.99, 20},
		{"ten hours", 10, 20},
		{"five hours", 5, 10},
		{"eleven hours", 11, 10},
		{"four hours", 4, 0},
		{"twelve hours", 12, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// No awake time, so actual sleep equals time in bed.
			res := ScoreTiered(SleepMetrics{TotalHours: tc.actualHours})
			if res.Breakdown.Duration != tc.want {
				t.Errorf("Duration = %d, want %d", res.Breakdown.Duration, tc.want)
			}
		})
	}
}

// TestScoreTieredDeepBands walks the deep-sleep ratio boundaries.
func TestScoreTieredDeepBands(t *testing.T) {
	cases := []struct {
		name    string
		deepMin float64 // of 480min actual sleep
		want    int
	}{
		{"twenty percent", 96, 25},
		{"fifteen percent", 72, 25},
		{"twenty five percent", 120, 25},
		{"twelve percent", 57.6, 15},
		{"twenty eight percent", 134.4, 15},
		{"seven percent", 33.6, 5},
		{"thirty three percent", 158.4, 5},
		{"three percent", 14.4, 0},
		{"forty percent", 192, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ScoreTiered(SleepMetrics{TotalHours: 8, DeepMin: tc.deepMin})
			if res.Breakdown.DeepSleep != tc.want {
				t.Errorf("DeepSleep = %d, want %d", res.Breakdown.DeepSleep, tc.want)
			}
		})
	}
}

// TestScoreTieredAwakeAndEfficiency checks the awake-ratio and efficiency
// sub-scores move together as awake time grows.
func TestScoreTieredAwakeAndEfficiency(t *testing.T) {
	// 4% awake: full awake score, >90% efficiency.
	res := ScoreTiered(SleepMetrics{TotalHours: 8, AwakeMin: 19.2})
	if res.Breakdown.AwakeTime != 10 {
		t.Errorf("AwakeTime = %d, want 10", res.Breakdown.AwakeTime)
	}
	if res.Breakdown.Efficiency != 10 {
		t.Errorf("Efficiency = %d, want 10", res.Breakdown.Efficiency)
	}

	// 8% awake: partial awake score, 92% efficiency still full.
	res = ScoreTiered(SleepMetrics{TotalHours: 8, AwakeMin: 38.4})
	if res.Breakdown.AwakeTime != 5 {
		t.Errorf("AwakeTime = %d, want 5", res.Breakdown.AwakeTime)
	}

	// 13% awake: zero awake score, 87% efficiency partial.
	res = ScoreTiered(SleepMetrics{TotalHours: 8, AwakeMin: 62.4})
	if res.Breakdown.AwakeTime != 0 {
		t.Errorf("AwakeTime = %d, want 0", res.Breakdown.AwakeTime)
	}
	if res.Breakdown.Efficiency != 5 {
		t.Errorf("Efficiency = %d, want 5", res.Breakdown.Efficiency)
	}
}

// TestScoreTieredRatiosRounded verifies reported ratios carry one decimal.
func TestScoreTieredRatiosRounded(t *testing.T) {
	res := ScoreTiered(SleepMetrics{TotalHours: 8, AwakeMin: 25, DeepMin: 70, REMMin: 90})
	// 70 / 455 * 100 = 15.384...
	if res.Ratios.DeepSleep != 15.4 {
		t.Errorf("DeepSleep ratio = %v, want 15.4", res.Ratios.DeepSleep)
	}
	// (480-25)/60 = 7.583...
	if res.ActualSleepHours != 7.6 {
		t.Errorf("ActualSleepHours = %v, want 7.6", res.ActualSleepHours)
	}
}

// TestScoreBaseline checks the penalty arithmetic of the baseline strategy.
func TestScoreBaseline(t *testing.T) {
	cases := []struct {
		name string
		in   StageDurations
		want int
	}{
		{
			// 8h total, 20% deep, 22.5% REM, no awake: no penalties.
			name: "ideal night",
			in:   StageDurations{TotalSleepHours: 8, DeepHours: 1.6, REMHours: 1.8},
			want: 80,
		},
		{
			// 6h total: -5. Deep 16.7%, REM 20.8%: no stage penalty.
			name: "one hour short",
			in:   StageDurations{TotalSleepHours: 6, DeepHours: 1, REMHours: 1.25},
			want: 75,
		},
		{
			// 10h total: -3.
			name: "one hour long",
			in:   StageDurations{TotalSleepHours: 10, DeepHours: 2, REMHours: 2.2},
			want: 77,
		},
		{
			// 8h, deep 10% (-10), REM 15% (-10), awake 1h of 8h = 12.5% (-22.5):
			// 80 - 42.5 = 37.5, rounds to 38.
			name: "fragmented night",
			in:   StageDurations{TotalSleepHours: 8, DeepHours: 0.8, REMHours: 1.2, AwakeHours: 1},
			want: 38,
		},
		{
			// Penalties exceed the base, clamp at zero.
			name: "floor at zero",
			in:   StageDurations{TotalSleepHours: 1, AwakeHours: 3},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ScoreBaseline(tc.in)
			if res.Score == nil || *res.Score != tc.want {
				t.Errorf("Score = %v, want %d", res.Score, tc.want)
			}
		})
	}
}

// TestScoreBaselineZeroTotal verifies the ratio guard when no sleep stages
// were recorded at all: the ratios stay zero instead of dividing by zero.
func TestScoreBaselineZeroTotal(t *testing.T) {
	res := ScoreBaseline(StageDurations{AwakeHours: 2})
	if res.Ratios.AwakeTime != 0 {
		t.Errorf("AwakeTime ratio = %v, want 0", res.Ratios.AwakeTime)
	}
	if res.Score == nil {
		t.Fatal("Score = nil, want a value")
	}
}

// TestRating walks the rating thresholds.
func TestRating(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{95, RatingExcellent},
		{90, RatingExcellent},
		{89, RatingGood},
		{80, RatingGood},
		{79, RatingFair},
		{60, RatingFair},
		{59, RatingPoor},
		{0, RatingPoor},
	}
	for _, tc := range cases {
		s := tc.score
		if got := Rating(&s); got != tc.want {
			t.Errorf("Rating(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
	if got := Rating(nil); got != RatingNoData {
		t.Errorf("Rating(nil) = %q, want %q", got, RatingNoData)
	}
}
