package aggregate

import (
	"time"

	"trac/internal/database/mongodb/model"
)

// YieldReport 加入日之後所有已載入班次的閒置 / 活躍比例
type YieldReport struct {
	TotalHours       string `json:"totalHours"`
	IdleHours        string `json:"idleHours"`
	ActiveHours      string `json:"activeHours"`
	IdleRatio        int    `json:"idleRatio"`
	ActiveEfficiency int    `json:"activeEfficiency"`
	LogCount         int    `json:"logCount"`
}

// ComputeYield joined 為 nil 時納入所有班次；有 joined 時缺 startTime 的班次不計
func ComputeYield(shifts []model.WorkShift, joined *time.Time, evidenceCount int, loc *time.Location) YieldReport {
	var total, idle, active float64

	var joinedStart time.Time
	if joined != nil {
		joinedStart = startOfDay(*joined, loc)
	}
	for _, shift := range shifts {
		if joined != nil && (shift.StartTime == nil || shift.StartTime.Before(joinedStart)) {
			continue
		}
		total += shift.LiveMetrics.TotalSeconds
		idle += shift.LiveMetrics.IdleSeconds
		active += shift.LiveMetrics.ActiveSeconds
	}

	return YieldReport{
		TotalHours:       FormatHours(total, 2),
		IdleHours:        FormatHours(idle, 2),
		ActiveHours:      FormatHours(active, 2),
		IdleRatio:        ratio(idle, total),
		ActiveEfficiency: ratio(active, total),
		LogCount:         evidenceCount,
	}
}
