package aggregate

import (
	"time"

	"trac/internal/core"
	"trac/internal/database/mongodb/model"
)

type AttendanceDay struct {
	Date    string                `json:"date"`
	Status  core.AttendanceStatus `json:"status"`
	Seconds float64               `json:"seconds"`
	Hours   string                `json:"hours"`
}

// ClassifyAttendance 日期皆為 yyyy-MM-dd；joined 為空代表沒有加入日期。
//
// 順序固定：加入前 → 未來 → 今天 → 有工時 → 缺勤。
func ClassifyAttendance(day, joined, today string, seconds float64) core.AttendanceStatus {
	switch {
	case joined != "" && day < joined:
		return core.AttendanceNotYetJoined
	case day > today:
		return core.AttendanceFuture
	case day == today:
		return core.AttendanceTodayPending
	case seconds > 0:
		return core.AttendancePresent
	default:
		return core.AttendanceAbsent
	}
}

// AttendanceInput month 內任一時間點即可
type AttendanceInput struct {
	Shifts []model.WorkShift
	Month  time.Time
	Joined *time.Time
	Now    time.Time
	Loc    *time.Location
}

// ComputeAttendance 以 startTime 在 loc 下的日期分組工時；加入日之前開始的班次不計
func ComputeAttendance(in AttendanceInput) []AttendanceDay {
	loc := locOrUTC(in.Loc)
	today := DayKey(in.Now, loc)

	var joinedKey string
	var joinedStart time.Time
	if in.Joined != nil {
		joinedStart = startOfDay(*in.Joined, loc)
		joinedKey = joinedStart.Format(core.DateLayout)
	}

	seconds := map[string]float64{}
	for _, shift := range in.Shifts {
		if shift.StartTime == nil || shift.StartTime.IsZero() {
			continue
		}
		if in.Joined != nil && shift.StartTime.Before(joinedStart) {
			continue
		}
		seconds[DayKey(*shift.StartTime, loc)] += shift.LiveMetrics.TotalSeconds
	}

	m := in.Month.In(loc)
	first := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, loc)
	days := make([]AttendanceDay, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		key := d.Format(core.DateLayout)
		secs := seconds[key]
		days = append(days, AttendanceDay{
			Date:    key,
			Status:  ClassifyAttendance(key, joinedKey, today, secs),
			Seconds: secs,
			Hours:   FormatHours(secs, 1),
		})
	}
	return days
}
