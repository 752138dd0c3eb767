package models

import (
	"encoding/json"
	"testing"
)

// TestHAETimeParse verifies all three accepted time layouts parse, since
// Health Auto Export is inconsistent about which it sends.
func TestHAETimeParse(t *testing.T) {
	cases := []struct {
		input    string
		wantDate string
	}{
		{"2025-12-23 21:56:37 +0800", "2025-12-23"},
		{"2025-12-23T21:56:37+08:00", "2025-12-23"},
		{"2025-12-23", "2025-12-23"},
	}
	for _, tc := range cases {
		var ht HAETime
		if err := ht.Parse(tc.input); err != nil {
			t.Fatalf("Parse(%q): %v", tc.input, err)
		}
		if got := ht.Format(HAEDateOnlyLayout); got != tc.wantDate {
			t.Errorf("Parse(%q) date = %q, want %q", tc.input, got, tc.wantDate)
		}
	}
}

// TestHAETimeParseInvalid verifies unparseable strings return an error
// rather than a zero time, so callers can skip the sample.
func TestHAETimeParseInvalid(t *testing.T) {
	var ht HAETime
	if err := ht.Parse("not a date"); err == nil {
		t.Error("expected error for invalid time string")
	}
}

// TestHAETimeDateKey verifies the grouping key is the UTC calendar day.
// A late-evening sample in +08:00 belongs to the previous UTC day.
func TestHAETimeDateKey(t *testing.T) {
	var ht HAETime
	if err := ht.Parse("2025-12-24 02:30:00 +0800"); err != nil {
		t.Fatal(err)
	}
	if got := ht.DateKey(); got != "2025-12-23" {
		t.Errorf("DateKey() = %q, want %q", got, "2025-12-23")
	}
}

// TestSleepPayloadDecode verifies the nested metrics/data structure decodes
// with stage labels and durations intact.
func TestSleepPayloadDecode(t *testing.T) {
	raw := `{"data":{"metrics":[{"name":"sleep_analysis","units":"hr","data":[
		{"startDate":"2025-12-23 22:10:00 +0000","endDate":"2025-12-23 23:40:00 +0000","qty":1.5,"value":"Deep","source":"Apple Watch"}
	]}]}}`
	var p SleepPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Data.Metrics) != 1 || len(p.Data.Metrics[0].Data) != 1 {
		t.Fatalf("unexpected structure: %+v", p)
	}
	pt := p.Data.Metrics[0].Data[0]
	if pt.Value != "Deep" || pt.Qty != 1.5 || pt.Source != "Apple Watch" {
		t.Errorf("unexpected stage point: %+v", pt)
	}
}

// TestHealthExportDecode verifies the combined export decodes, including the
// misspelled sleep_analyais wire key.
func TestHealthExportDecode(t *testing.T) {
	raw := `{"metadata":{"date":"2025-12-18T00:00:00+08:00","device_name":"iPhone"},
		"sleep_analyais":{"total_hours":7.5,"deep_sleep_min":70,"rem_sleep_min":95,"awake_time_min":20},
		"daily_summary":{"steps":10500,"exercise_minutes":42,"active_energy_kcal":480.5}}`
	var e HealthExport
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Metadata == nil || e.Metadata.Date == "" {
		t.Fatal("metadata.date missing after decode")
	}
	if e.SleepAnalysis == nil || e.SleepAnalysis.TotalHours == nil || *e.SleepAnalysis.TotalHours != 7.5 {
		t.Errorf("sleep_analyais not decoded: %+v", e.SleepAnalysis)
	}
	if e.DailySummary == nil || e.DailySummary.Steps == nil || *e.DailySummary.Steps != 10500 {
		t.Errorf("daily_summary not decoded: %+v", e.DailySummary)
	}
}

// TestNormalizeSleepStage verifies canonical, localized, and unknown labels.
func TestNormalizeSleepStage(t *testing.T) {
	cases := []struct {
		input string
		want  string
		known bool
	}{
		{"Deep", "Deep", true},
		{"deep", "Deep", true},
		{"  REM  ", "REM", true},
		{"核心", "Core", true},
		{"清醒", "Awake", true},
		{"快速動眼", "REM", true},
		{"Mystery", "Mystery", false},
	}
	for _, tc := range cases {
		got, known := NormalizeSleepStage(tc.input)
		if got != tc.want || known != tc.known {
			t.Errorf("NormalizeSleepStage(%q) = (%q, %v), want (%q, %v)",
				tc.input, got, known, tc.want, tc.known)
		}
	}
}
