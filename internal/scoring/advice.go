package scoring

import (
	"strconv"
	"strings"
)

// SleepStatus is the sleep side of the daily summary: a score (nil when no
// sleep data exists) and its rating.
type SleepStatus struct {
	Score  *int
	Rating string
}

// ActivityTotals is the activity side of the daily summary.
type ActivityTotals struct {
	Steps            float64
	ExerciseMinutes  float64
	ActiveEnergyKcal float64
}

// DailySummaryLine builds the one-line daily summary written to the habit
// tracker, joining the sleep and activity parts with " | ".
func DailySummaryLine(sleep *SleepStatus, activity *ActivityTotals) string {
	var parts []string

	if sleep != nil && sleep.Score != nil {
		parts = append(parts, "睡眠评分: "+strconv.Itoa(*sleep.Score)+"/100 ("+sleep.Rating+")")
	} else {
		parts = append(parts, "睡眠评分: 无数据")
	}

	if activity != nil {
		parts = append(parts,
			"步数: "+num(activity.Steps)+"步",
			"运动时长: "+num(activity.ExerciseMinutes)+"分钟",
			"消耗能量: "+num(activity.ActiveEnergyKcal)+"kcal",
		)
	} else {
		parts = append(parts, "运动数据: 无数据")
	}

	return strings.Join(parts, " | ")
}

// DailyAdvice builds the newline-joined health advice for the habit tracker,
// sleep advice first, then activity advice. Falls back to an all-good line
// when nothing triggers.
func DailyAdvice(sleep *SleepStatus, activity *ActivityTotals) string {
	var lines []string

	if sleep != nil && sleep.Score != nil {
		switch {
		case *sleep.Score >= 80:
			lines = append(lines, "✅ 睡眠质量很好，请继续保持规律作息！")
		case *sleep.Score >= 60:
			lines = append(lines, "⚠️ 睡眠质量一般，建议改善睡前习惯，避免使用电子设备。")
		default:
			lines = append(lines, "❌ 睡眠质量较差，建议调整作息时间，创造更好的睡眠环境。")
		}
	}

	if activity != nil {
		if activity.Steps < 8000 {
			lines = append(lines, "⚠️ 步数较少，建议增加日常活动，多走路爬楼梯。")
		} else if activity.Steps >= 10000 {
			lines = append(lines, "✅ 步数达标，继续保持活跃的生活方式！")
		}
		if activity.ExerciseMinutes < 30 {
			lines = append(lines, "⚠️ 运动时间不足，建议每天至少进行30分钟中等强度运动。")
		} else {
			lines = append(lines, "✅ 运动时间充足，有助于身体健康！")
		}
	}

	if len(lines) == 0 {
		return "✅ 今日各项指标表现良好，请继续保持！"
	}
	return strings.Join(lines, "\n")
}

// num formats a metric value the way it should read in the summary: no
// trailing zeros, no exponent.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
