package aggregate

import (
	"math"
	"sort"
	"time"

	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/personnel"
)

const (
	intensityScale   = 70
	intensityFloor   = 0.1
	intensityCeiling = 1.5
)

// DetailInput Live 為 registry 中的即時紀錄（可能不存在）；其餘來自單一員工的訂閱
type DetailInput struct {
	EmployeeID  string
	Live        *personnel.Record
	Profile     *model.User
	History     []model.WorkShift
	TimeEntries []model.TimeEntry
	Screenshots []model.Screenshot
	Joined      *time.Time
	Month       time.Time
	Now         time.Time
	Loc         *time.Location
}

// Detail 單一員工明細
type Detail struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	IsOnline          bool              `json:"isOnline"`
	LastActiveWindow  string            `json:"lastActiveWindow"`
	CurrentShiftHours string            `json:"currentShiftHours"`
	TodayTotalHours   string            `json:"todayTotalHours"`
	TopApp            string            `json:"topApp"`
	Intensity         float64           `json:"intensity"`
	AIBrief           *string           `json:"aiBrief"`
	Activity          ActivityCurve     `json:"activity"`
	Attendance        []AttendanceDay   `json:"attendance"`
	Yield             YieldReport       `json:"yield"`
	WorkHistory       []EvidenceCluster `json:"workHistory"`
	Screenshots       int               `json:"screenshots"`
}

// ComputeEmployeeDetail 今日時數與 topApp / intensity 優先使用 registry 的即時班次，
// 其餘（出勤、活動曲線、產出）使用歷史班次
func ComputeEmployeeDetail(in DetailInput) Detail {
	loc := locOrUTC(in.Loc)
	today := DayKey(in.Now, loc)

	d := Detail{ID: in.EmployeeID}
	if in.Profile != nil {
		d.Name, d.Email = in.Profile.Name, in.Profile.Email
	}
	var heartbeat *model.Heartbeat
	if in.Live != nil {
		if in.Live.Profile.Name != "" {
			d.Name = in.Live.Profile.Name
		}
		if in.Live.Profile.Email != "" {
			d.Email = in.Live.Profile.Email
		}
		heartbeat = in.Live.Heartbeat
	}
	if heartbeat != nil {
		d.IsOnline = heartbeat.IsCurrentlyRunning
		d.LastActiveWindow = heartbeat.LastActiveWindow
	}

	shifts := in.History
	if in.Live != nil && len(in.Live.WorkShifts) > 0 {
		shifts = in.Live.WorkShifts
	}
	d.CurrentShiftHours, d.TodayTotalHours, d.TopApp = todaySummary(shifts, today)
	d.Intensity, d.AIBrief = intensity(shifts, d.IsOnline)

	d.Activity = ComputeActivity(in.History, today)
	d.Attendance = ComputeAttendance(AttendanceInput{
		Shifts: in.History,
		Month:  in.Month,
		Joined: in.Joined,
		Now:    in.Now,
		Loc:    loc,
	})
	d.Yield = ComputeYield(in.History, in.Joined, len(in.Screenshots), loc)
	d.WorkHistory = ClusterEvidence(in.TimeEntries, in.Screenshots)
	d.Screenshots = len(in.Screenshots)
	return d
}

// todaySummary 回傳目前班次時數、今日總時數與 topApp 顯示名稱
func todaySummary(shifts []model.WorkShift, today string) (string, string, string) {
	var activeSeconds, todaySeconds float64
	apps := map[string]float64{}

	for _, shift := range shifts {
		if !shift.OnDay(today) {
			continue
		}
		todaySeconds += shift.LiveMetrics.TotalSeconds
		if shift.Status == core.ShiftStatusActive {
			activeSeconds = shift.LiveMetrics.TotalSeconds
		}
		for app, secs := range shift.LiveBreakdown {
			apps[app] += secs
		}
	}
	return FormatHours(activeSeconds, 1), FormatHours(todaySeconds, 1), TopApp(apps)
}

// TopApp 秒數最高且非 Idle 的應用程式；沒有正秒數的應用程式時回傳 "---"
func TopApp(apps map[string]float64) string {
	for _, name := range sortedBySeconds(apps) {
		if name == IdleApp || apps[name] <= 0 {
			continue
		}
		return DisplayAppName(name)
	}
	return NoTopApp
}

// intensity 取 startTime 最新的班次；沒有報告時依是否在線給 0.1 或 0
func intensity(shifts []model.WorkShift, online bool) (float64, *string) {
	if len(shifts) == 0 {
		return 0, nil
	}

	sorted := make([]model.WorkShift, len(shifts))
	copy(sorted, shifts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timeOrEpoch(sorted[i].StartTime).After(timeOrEpoch(sorted[j].StartTime))
	})

	report := sorted[0].CognitiveReport
	if report == nil {
		if online {
			return intensityFloor, nil
		}
		return 0, nil
	}

	composite := (report.FocusScore + report.ProductivityScore + report.Velocity) / 3
	value := math.Min(math.Max(composite/intensityScale, intensityFloor), intensityCeiling)

	var brief *string
	if report.AIBrief != "" {
		b := report.AIBrief
		brief = &b
	}
	return value, brief
}
