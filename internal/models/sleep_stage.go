package models

import "strings"

// Canonical sleep stage names (as used by Apple Health in English).
const (
	SleepStageAwake  = "Awake"
	SleepStageAsleep = "Asleep"
	SleepStageCore   = "Core"
	SleepStageDeep   = "Deep"
	SleepStageREM    = "REM"
	SleepStageInBed  = "In Bed"
)

// sleepStageMap maps lowercased localized stage names to their canonical
// English equivalents. Covers English and Chinese (Simplified & Traditional),
// the locales this deployment actually receives.
var sleepStageMap = map[string]string{
	// English
	"awake":  SleepStageAwake,
	"asleep": SleepStageAsleep,
	"core":   SleepStageCore,
	"deep":   SleepStageDeep,
	"rem":    SleepStageREM,
	"in bed": SleepStageInBed,

	// Chinese (Simplified)
	"清醒":   SleepStageAwake,
	"睡眠":   SleepStageAsleep,
	"核心":   SleepStageCore,
	"深度":   SleepStageDeep,
	"快速眼动": SleepStageREM,
	"在床上":  SleepStageInBed,

	// Chinese (Traditional)
	"核心睡眠": SleepStageCore,
	"深層":   SleepStageDeep,
	"快速動眼": SleepStageREM,
}

// NormalizeSleepStage maps a possibly-localized sleep stage name to its
// canonical English equivalent. Returns the canonical name and true if
// recognized, or the original string and false if unknown.
func NormalizeSleepStage(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := sleepStageMap[lower]; ok {
		return canonical, true
	}
	return raw, false
}
