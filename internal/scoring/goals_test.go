package scoring

import "testing"

func lenientTargets() Targets {
	return Targets{Steps: 10000, ExerciseMinutes: 30, ActiveEnergyKcal: 300}
}

func strictTargets() Targets {
	return Targets{Steps: 10000, ExerciseMinutes: 30, ActiveEnergyKcal: 500, WorkoutCount: 1}
}

// TestEvaluateNoData verifies that missing totals yield a nil Achieved and
// the no-data status, in both modes.
func TestEvaluateNoData(t *testing.T) {
	for _, mode := range []Mode{ModeLenient, ModeStrict} {
		ev := Evaluate(nil, lenientTargets(), mode)
		if ev.Achieved != nil {
			t.Errorf("mode %d: Achieved = %v, want nil", mode, *ev.Achieved)
		}
		if ev.Status != StatusNoData {
			t.Errorf("mode %d: Status = %q, want %q", mode, ev.Status, StatusNoData)
		}
	}
}

// TestEvaluateLenient checks the 80% thresholds and the two-of-three rule.
func TestEvaluateLenient(t *testing.T) {
	cases := []struct {
		name   string
		totals DailyTotals
		want   bool
	}{
		{
			name:   "all at eighty percent",
			totals: DailyTotals{Steps: 8000, ExerciseMinutes: 24, ActiveEnergyKcal: 240},
			want:   true,
		},
		{
			name:   "two of three pass",
			totals: DailyTotals{Steps: 8500, ExerciseMinutes: 35, ActiveEnergyKcal: 100},
			want:   true,
		},
		{
			name:   "only steps pass",
			totals: DailyTotals{Steps: 12000, ExerciseMinutes: 10, ActiveEnergyKcal: 100},
			want:   false,
		},
		{
			name:   "steps just under threshold",
			totals: DailyTotals{Steps: 7999, ExerciseMinutes: 40, ActiveEnergyKcal: 400},
			want:   true, // exercise and energy carry the day
		},
		{
			name:   "nothing passes",
			totals: DailyTotals{Steps: 1000, ExerciseMinutes: 5, ActiveEnergyKcal: 50},
			want:   false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := Evaluate(&tc.totals, lenientTargets(), ModeLenient)
			if ev.Achieved == nil || *ev.Achieved != tc.want {
				t.Errorf("Achieved = %v, want %v", ev.Achieved, tc.want)
			}
			wantStatus := StatusNotAchieved
			if tc.want {
				wantStatus = StatusAchieved
			}
			if ev.Status != wantStatus {
				t.Errorf("Status = %q, want %q", ev.Status, wantStatus)
			}
		})
	}
}

// TestEvaluateLenientBoundary pins the per-metric boundary at exactly 80%
// of target.
func TestEvaluateLenientBoundary(t *testing.T) {
	totals := DailyTotals{Steps: 8000, ExerciseMinutes: 23.9, ActiveEnergyKcal: 239}
	ev := Evaluate(&totals, lenientTargets(), ModeLenient)
	if !ev.Steps.Achieved {
		t.Error("Steps at exactly 80% should pass")
	}
	if ev.ExerciseMinutes.Achieved {
		t.Error("ExerciseMinutes just under 80% should fail")
	}
	if ev.ActiveEnergy.Achieved {
		t.Error("ActiveEnergy just under 80% should fail")
	}
}

// TestEvaluateStrict checks that strict mode requires all four metrics at
// full target, including the workout count.
func TestEvaluateStrict(t *testing.T) {
	full := DailyTotals{Steps: 10000, ExerciseMinutes: 30, ActiveEnergyKcal: 500, WorkoutCount: 1}
	ev := Evaluate(&full, strictTargets(), ModeStrict)
	if ev.Achieved == nil || !*ev.Achieved {
		t.Fatalf("Achieved = %v, want true", ev.Achieved)
	}
	if !ev.WorkoutCount.Achieved {
		t.Error("WorkoutCount should pass at target")
	}

	// 80% is not enough in strict mode.
	partial := DailyTotals{Steps: 8000, ExerciseMinutes: 30, ActiveEnergyKcal: 500, WorkoutCount: 1}
	ev = Evaluate(&partial, strictTargets(), ModeStrict)
	if ev.Achieved == nil || *ev.Achieved {
		t.Errorf("Achieved = %v, want false", ev.Achieved)
	}

	// No workouts fails the day even with everything else over target.
	rest := DailyTotals{Steps: 15000, ExerciseMinutes: 60, ActiveEnergyKcal: 800}
	ev = Evaluate(&rest, strictTargets(), ModeStrict)
	if ev.Achieved == nil || *ev.Achieved {
		t.Errorf("Achieved = %v, want false", ev.Achieved)
	}
}

// TestEvaluateBreakdownValues verifies actual and target values are carried
// through for the per-metric breakdown.
func TestEvaluateBreakdownValues(t *testing.T) {
	totals := DailyTotals{Steps: 8500, ExerciseMinutes: 45, ActiveEnergyKcal: 320}
	ev := Evaluate(&totals, lenientTargets(), ModeLenient)
	if ev.Steps.Actual != 8500 || ev.Steps.Target != 10000 {
		t.Errorf("Steps = %+v, want actual 8500 target 10000", ev.Steps)
	}
	if ev.ActiveEnergy.Actual != 320 || ev.ActiveEnergy.Target != 300 {
		t.Errorf("ActiveEnergy = %+v, want actual 320 target 300", ev.ActiveEnergy)
	}
}
