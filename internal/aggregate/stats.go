package aggregate

import (
	"sort"

	"trac/internal/personnel"
)

type AppUsage struct {
	Name       string `json:"name"`
	Hours      string `json:"hours"`
	Percentage int    `json:"percentage"`
}

// Stats 組織層級的今日統計
type Stats struct {
	TotalHoursToday string     `json:"totalHoursToday"`
	TotalOrgHours   string     `json:"totalOrgHours"`
	ActiveEmployees int        `json:"activeEmployees"`
	Velocity        int        `json:"velocity"`
	TopApps         []AppUsage `json:"topApps"`
	TotalStaff      int        `json:"totalStaff"`
}

// EmptyStats 沒有任何人員時的統計
func EmptyStats() Stats {
	return ComputeStats(nil, "")
}

// ComputeStats 以所有人員紀錄（含觀察者本人）重算組織統計
func ComputeStats(records []personnel.Record, actorID string) Stats {
	var (
		todaySeconds   float64
		allTimeSeconds float64
		active         int
		velocitySum    float64
		velocityCount  int
	)
	apps := map[string]float64{}

	for _, r := range records {
		if r.IsOnline() {
			active++
		}
		allTimeSeconds += r.Profile.TotalSeconds

		for _, s := range r.WorkShifts {
			todaySeconds += s.LiveMetrics.TotalSeconds
			for app, secs := range s.LiveBreakdown {
				apps[app] += secs
			}
			if s.CognitiveReport != nil && s.CognitiveReport.Velocity != 0 {
				velocitySum += s.CognitiveReport.Velocity
				velocityCount++
			}
		}
	}

	velocity := DefaultVelocity
	if velocityCount > 0 {
		velocity = round(velocitySum / float64(velocityCount))
	}

	denominator := todaySeconds
	if denominator == 0 {
		denominator = 1
	}

	names := sortedBySeconds(apps)
	topApps := make([]AppUsage, 0, len(names))
	for _, name := range names {
		secs := apps[name]
		topApps = append(topApps, AppUsage{
			Name:       Humanize(name),
			Hours:      FormatHours(secs, 1),
			Percentage: round(secs / denominator * 100),
		})
	}

	return Stats{
		TotalHoursToday: FormatHours(todaySeconds, 1),
		TotalOrgHours:   FormatHours(allTimeSeconds, 1),
		ActiveEmployees: active,
		Velocity:        velocity,
		TopApps:         topApps,
		TotalStaff:      len(Employees(records, actorID)),
	}
}

// Employees 觀察者以外、且未被停用的人員
func Employees(records []personnel.Record, actorID string) []personnel.Record {
	out := make([]personnel.Record, 0, len(records))
	for _, r := range records {
		if r.ID == actorID || !r.Profile.IsActive() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// sortedBySeconds 依秒數遞減；同秒數時依名稱排序讓輸出穩定
func sortedBySeconds(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] > m[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
