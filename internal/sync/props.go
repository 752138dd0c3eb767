package sync

// Property names of the habit tracker pages. The Notion databases predate
// this service, so the schema names stay as they are.
const (
	PropSleepScore   = "睡眠评分(100分制)"
	PropSleepRating  = "睡眠质量评级"
	PropExerciseOK   = "运动是否达标"
	PropSteps        = "步数"
	PropExerciseMin  = "运动时长(分钟)"
	PropActiveEnergy = "消耗能量(kcal)"
	PropDailySummary = "当日总结"
	PropHealthAdvice = "健康建议"
)

// Property names patched onto the daily health record when workout totals
// arrive.
const (
	PropWorkoutCount     = "今日训练次数"
	PropWorkoutMinutes   = "今日训练总时长(分钟)"
	PropWorkoutSteps     = "今日训练总步数"
	PropWorkoutEnergy    = "今日训练总能量(kcal)"
	PropGoalSteps        = "步数目标达成"
	PropGoalMinutes      = "运动时长目标达成"
	PropGoalEnergy       = "活动能量目标达成"
	PropGoalWorkoutCount = "训练次数目标达成"
	PropGoalAll          = "今日运动是否达标"
	PropGoalStatus       = "达标状态"
)

// PropHealthRelation links a workout page to its day's health record.
const PropHealthRelation = "健康记录"
