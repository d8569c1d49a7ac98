package aggregate

import (
	"testing"
	"time"

	"trac/internal/database/mongodb/model"
	"trac/internal/personnel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWorkforce(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	records := []personnel.Record{
		{ID: "owner", Profile: model.User{Name: "Boss"}, WorkShifts: []model.WorkShift{shift("2024-05-01_o", 7200, nil)}},
		{
			ID:        "u2",
			Profile:   model.User{Name: "Ada", Email: "ada@example.com"},
			Heartbeat: &model.Heartbeat{IsCurrentlyRunning: true, LastActiveWindow: "Terminal"},
			WorkShifts: []model.WorkShift{
				{
					ShiftID:       "2024-05-01_a",
					LiveMetrics:   model.LiveMetrics{TotalSeconds: 3600},
					LiveBreakdown: map[string]float64{"google_chrome": 1800, "Idle": 1800},
					HourlyPulse: map[string]model.PulseMetrics{
						"10": {Seconds: 1800, Keystrokes: 4, MouseClicks: 1},
						"09": {Seconds: 1800, Keystrokes: 10, MouseClicks: 5},
						"xx": {Keystrokes: 1},
					},
				},
				shift("2024-04-30_z", 1800, map[string]float64{"old": 1800}),
			},
		},
		{ID: "u3", Profile: model.User{Name: "Gone", Active: boolPtr(false)}},
	}

	wf := ComputeWorkforce(WorkforceInput{Records: records, ActorID: "owner", OrgName: "Acme", Now: now, Loc: time.UTC})

	require.Len(t, wf.Employees, 1)
	emp := wf.Employees[0]
	assert.Equal(t, "u2", emp.ID)
	assert.True(t, emp.IsOnline)
	assert.Equal(t, "Terminal", emp.LastActiveWindow)
	assert.Equal(t, "1.0", emp.HoursToday)
	assert.Equal(t, "1.5", emp.TotalHours)
	assert.Equal(t, []float64{20, 6, 1}, emp.PrevHours)
	assert.Equal(t, "Remote", emp.Location)

	require.Len(t, wf.Performance, 24)
	assert.Equal(t, "09:00", wf.Performance[9].Date)
	require.NotNil(t, wf.Performance[9].ActualHours)
	assert.InDelta(t, 0.5, *wf.Performance[9].ActualHours, 1e-9)
	assert.Nil(t, wf.Performance[9].ProjectedHours)
	require.NotNil(t, wf.Performance[10].ProjectedHours)
	assert.InDelta(t, 0.5, *wf.Performance[10].ProjectedHours, 1e-9)
	assert.Nil(t, wf.Performance[11].ActualHours)
	require.NotNil(t, wf.Performance[11].ProjectedHours)
	assert.InDelta(t, 1.0/11, *wf.Performance[11].ProjectedHours, 1e-9)

	ids := make([]string, 0, len(wf.Flow.Nodes))
	for _, n := range wf.Flow.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"source", "u2", "app-IDLE", "app-GOOGLE CHROME"}, ids)
	assert.Equal(t, "ACME", wf.Flow.Nodes[0].Name)
	assert.Equal(t, "ADA", wf.Flow.Nodes[1].Name)
	require.Len(t, wf.Flow.Links, 3)
	assert.Equal(t, FlowLink{Source: "source", Target: "u2", Value: 1}, wf.Flow.Links[0])
}

func TestComputeWorkforce_LocationAndSparklineWindow(t *testing.T) {
	pulse := map[string]model.PulseMetrics{}
	for h := 0; h < 12; h++ {
		pulse[pad2(h)] = model.PulseMetrics{Keystrokes: float64(h)}
	}
	records := []personnel.Record{{
		ID:         "u1",
		Profile:    model.User{Name: "Ada", LastLoginLocation: &model.Location{City: "Taipei"}},
		WorkShifts: []model.WorkShift{{ShiftID: "2024-05-01_a", HourlyPulse: pulse}},
	}}

	wf := ComputeWorkforce(WorkforceInput{Records: records, Now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)})

	require.Len(t, wf.Employees, 1)
	assert.Equal(t, "Taipei", wf.Employees[0].Location)
	assert.Equal(t, []float64{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, wf.Employees[0].PrevHours)
	assert.Equal(t, "ORGANIZATION", wf.Flow.Nodes[0].Name)
	assert.Len(t, wf.Flow.Nodes, 1)
}

func TestComputeWorkforce_Empty(t *testing.T) {
	wf := ComputeWorkforce(WorkforceInput{Now: time.Now()})
	assert.Empty(t, wf.Employees)
	assert.Empty(t, wf.Performance)
	assert.Empty(t, wf.Flow.Nodes)
}
