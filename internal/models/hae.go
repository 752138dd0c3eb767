package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// HAETime handles the Health Auto Export date format: "2006-01-02 15:04:05 -0700"
// Also handles RFC 3339 and date-only "2006-01-02", which some HAE versions
// emit for workout start/end fields.
type HAETime struct {
	time.Time
}

const (
	HAETimeLayout     = "2006-01-02 15:04:05 -0700"
	HAEDateOnlyLayout = "2006-01-02"
)

func (t *HAETime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

func (t HAETime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(HAETimeLayout))
}

// Parse parses an HAE time string, trying full datetime first, then RFC 3339,
// then date-only.
func (t *HAETime) Parse(s string) error {
	for _, layout := range []string{HAETimeLayout, time.RFC3339, HAEDateOnlyLayout} {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse HAE time %q", s)
}

// DateKey returns the calendar-day key (YYYY-MM-DD, UTC) used to group
// samples into daily Notion pages.
func (t HAETime) DateKey() string {
	return t.UTC().Format(HAEDateOnlyLayout)
}

// SleepPayload is the body posted to /api/sleep: a metrics array of
// per-stage sleep samples (Summarize Data: OFF in Health Auto Export).
type SleepPayload struct {
	Data SleepData `json:"data"`
}

type SleepData struct {
	Metrics []SleepMetric `json:"metrics"`
}

// SleepMetric is one metric entry whose data points are sleep stage segments.
type SleepMetric struct {
	Name  string            `json:"name"`
	Units string            `json:"units"`
	Data  []SleepStagePoint `json:"data"`
}

// SleepStagePoint is an individual sleep stage segment.
type SleepStagePoint struct {
	StartDate HAETime `json:"startDate"`
	EndDate   HAETime `json:"endDate"`
	Qty       float64 `json:"qty"`   // duration in hours
	Value     string  `json:"value"` // stage label: Awake, Asleep, Core, Deep, REM
	Source    string  `json:"source,omitempty"`
}

// WorkoutPayload is the body posted to /api/workout.
type WorkoutPayload struct {
	Data WorkoutData `json:"data"`
}

type WorkoutData struct {
	Workouts []Workout `json:"workouts"`
}

// Workout is a single workout session from Health Auto Export.
// ID and Start are required; everything else is optional.
type Workout struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Start    *HAETime `json:"start,omitempty"`
	End      *HAETime `json:"end,omitempty"`
	Duration float64  `json:"duration,omitempty"` // seconds
	Location string   `json:"location,omitempty"`

	StepCount          []QtyPoint `json:"stepCount,omitempty"`
	ActiveEnergyBurned *Quantity  `json:"activeEnergyBurned,omitempty"`
	Temperature        *Quantity  `json:"temperature,omitempty"`
	Humidity           *Quantity  `json:"humidity,omitempty"`
	Intensity          *Quantity  `json:"intensity,omitempty"`

	HeartRateData []HRPoint    `json:"heartRateData,omitempty"`
	Route         []RoutePoint `json:"route,omitempty"`
}

// Quantity is the {"qty": N, "units": "..."} structure.
type Quantity struct {
	Qty   float64 `json:"qty"`
	Units string  `json:"units,omitempty"`
}

// QtyPoint is a timestamped quantity sample (step count segments).
type QtyPoint struct {
	Date HAETime `json:"date"`
	Qty  float64 `json:"qty"`
}

// HRPoint is a heart rate sample during a workout (capitalized keys in HAE JSON).
type HRPoint struct {
	Date HAETime `json:"date"`
	Min  float64 `json:"Min"`
	Avg  float64 `json:"Avg"`
	Max  float64 `json:"Max"`
}

// RoutePoint is a GPS point from a workout route.
type RoutePoint struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  float64  `json:"altitude,omitempty"`
	Timestamp *HAETime `json:"timestamp,omitempty"`
}

// HealthExport is the combined daily export posted to /api/health.
// Only Metadata.Date is required; every section is optional and fields
// inside a section may be absent.
type HealthExport struct {
	Metadata      *Metadata      `json:"metadata"`
	Body          *BodyMetrics   `json:"body,omitempty"`
	FitnessDetail *FitnessDetail `json:"fitness_detail,omitempty"`
	// The exporter misspells this key; it is part of the wire format.
	SleepAnalysis *SleepAnalysis `json:"sleep_analyais,omitempty"`
	Vitals        *Vitals        `json:"vitals,omitempty"`
	DailySummary  *DailySummary  `json:"daily_summary,omitempty"`
}

type Metadata struct {
	Date       string `json:"date"`
	DeviceName string `json:"device_name,omitempty"`
}

type BodyMetrics struct {
	Height *float64 `json:"height,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

type FitnessDetail struct {
	AvgWalkingSpeed   *float64 `json:"avg_walking_speed,omitempty"`
	AvgRunningSpeed   *float64 `json:"avg_running_speed,omitempty"`
	WalkingSteadiness *float64 `json:"walking_steadiness,omitempty"`
	CyclingDistance   *float64 `json:"cycling_distance,omitempty"`
}

// SleepAnalysis holds the pre-aggregated nightly sleep fields used by the
// tiered sleep scorer.
type SleepAnalysis struct {
	TotalHours   *float64 `json:"total_hours,omitempty"`
	DeepSleepMin *float64 `json:"deep_sleep_min,omitempty"`
	RemSleepMin  *float64 `json:"rem_sleep_min,omitempty"`
	CoreSleepMin *float64 `json:"core_sleep_min,omitempty"`
	AwakeTimeMin *float64 `json:"awake_time_min,omitempty"`
}

type Vitals struct {
	RestingHeartRate *float64 `json:"resting_heart_rate,omitempty"`
	MaxHRToday       *float64 `json:"max_hr_today,omitempty"`
	HRVms            *float64 `json:"hrv_ms,omitempty"`
	RespiratoryRate  *float64 `json:"respiratory_rate,omitempty"`
	BloodOxygenAvg   *float64 `json:"blood_oxygen_avg,omitempty"`
}

// DailySummary holds the activity totals evaluated against daily goals.
type DailySummary struct {
	Steps                  *float64 `json:"steps,omitempty"`
	DistanceWalkingRunning *float64 `json:"distance_walking_running,omitempty"`
	ActiveEnergyKcal       *float64 `json:"active_energy_kcal,omitempty"`
	ExerciseMinutes        *float64 `json:"exercise_minutes,omitempty"`
	StandHours             *float64 `json:"stand_hours,omitempty"`
}
