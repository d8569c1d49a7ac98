package aggregate

import "trac/internal/database/mongodb/model"

type ActivitySlot struct {
	Time       string  `json:"time"`
	Keystrokes float64 `json:"keystrokes"`
	Clicks     float64 `json:"clicks"`
	Distance   float64 `json:"distance"`
	Seconds    float64 `json:"seconds"`
}

type ActivityTotals struct {
	Keys     float64 `json:"keys"`
	Clicks   float64 `json:"clicks"`
	Distance float64 `json:"distance"`
}

// ActivityCurve 固定 24 個時段
type ActivityCurve struct {
	Slots  []ActivitySlot `json:"chartData"`
	Totals ActivityTotals `json:"totals"`
}

// ComputeActivity 累加今日班次的 hourlyPulse；無法解析或超出 0..23 的鍵忽略
func ComputeActivity(shifts []model.WorkShift, today string) ActivityCurve {
	curve := ActivityCurve{Slots: make([]ActivitySlot, 24)}
	for i := range curve.Slots {
		curve.Slots[i].Time = pad2(i)
	}

	for _, shift := range shifts {
		if !shift.OnDay(today) {
			continue
		}
		for _, hour := range pulseHours(shift.HourlyPulse) {
			if !hour.valid {
				continue
			}
			pulse := shift.HourlyPulse[hour.key]
			slot := &curve.Slots[hour.index]
			slot.Keystrokes += pulse.Keystrokes
			slot.Clicks += pulse.MouseClicks
			slot.Distance += pulse.MouseDistance
			slot.Seconds += pulse.Seconds

			curve.Totals.Keys += pulse.Keystrokes
			curve.Totals.Clicks += pulse.MouseClicks
			curve.Totals.Distance += pulse.MouseDistance
		}
	}
	return curve
}
