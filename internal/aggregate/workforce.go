package aggregate

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/personnel"
)

const (
	sparklineLength = 10
	flowThreshold   = 0.01
	remoteLocation  = "Remote"
	defaultOrgName  = "ORGANIZATION"
)

// EmployeeSnapshot 員工清單上的一列
type EmployeeSnapshot struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             core.Role `json:"role"`
	IsOnline         bool      `json:"isOnline"`
	LastActiveWindow string    `json:"lastActiveWindow"`
	Location         string    `json:"location"`
	HoursToday       string    `json:"hoursToday"`
	TotalHours       string    `json:"totalHours"`
	PrevHours        []float64 `json:"prevHours"`
}

type HorizonPoint struct {
	Date           string   `json:"date"`
	ActualHours    *float64 `json:"actualHours"`
	ProjectedHours *float64 `json:"projectedHours"`
}

type FlowNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type FlowLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// Workforce 員工清單、今日時段走勢與工作流向圖
type Workforce struct {
	Employees   []EmployeeSnapshot `json:"workforce"`
	Performance []HorizonPoint     `json:"performance"`
	Flow        FlowGraph          `json:"sankey"`
}

// WorkforceInput now 與 loc 決定「今天」與目前小時
type WorkforceInput struct {
	Records []personnel.Record
	ActorID string
	OrgName string
	Now     time.Time
	Loc     *time.Location
}

// ComputeWorkforce 單次走訪員工紀錄，產生清單、時段走勢與流向圖
func ComputeWorkforce(in WorkforceInput) Workforce {
	employees := Employees(in.Records, in.ActorID)
	if len(employees) == 0 {
		return Workforce{Employees: []EmployeeSnapshot{}, Performance: []HorizonPoint{}, Flow: FlowGraph{Nodes: []FlowNode{}, Links: []FlowLink{}}}
	}

	today := DayKey(in.Now, in.Loc)
	currentHour := in.Now.In(locOrUTC(in.Loc)).Hour()

	orgName := in.OrgName
	if orgName == "" {
		orgName = defaultOrgName
	}
	flow := FlowGraph{
		Nodes: []FlowNode{{ID: "source", Name: strings.ToUpper(orgName), Kind: "organization"}},
		Links: []FlowLink{},
	}
	seenApps := map[string]bool{}
	var buckets [24]float64

	snapshots := make([]EmployeeSnapshot, 0, len(employees))
	for _, emp := range employees {
		var todaySeconds, totalSeconds float64
		appSeconds := map[string]float64{}
		sparkline := []float64{}

		for _, shift := range emp.WorkShifts {
			totalSeconds += shift.LiveMetrics.TotalSeconds
			if !shift.OnDay(today) {
				continue
			}
			todaySeconds += shift.LiveMetrics.TotalSeconds
			for app, secs := range shift.LiveBreakdown {
				appSeconds[app] += secs
			}
			for _, hour := range pulseHours(shift.HourlyPulse) {
				pulse := shift.HourlyPulse[hour.key]
				if hour.valid {
					buckets[hour.index] += pulse.Seconds / 3600
				}
				sparkline = append(sparkline, pulse.Keystrokes+pulse.MouseClicks*2)
			}
		}

		todayHours := todaySeconds / 3600
		if todayHours > flowThreshold {
			flow.Nodes = append(flow.Nodes, FlowNode{ID: emp.ID, Name: strings.ToUpper(emp.Profile.Name), Kind: "employee"})
			flow.Links = append(flow.Links, FlowLink{Source: "source", Target: emp.ID, Value: todayHours})

			for _, app := range sortedBySeconds(appSeconds) {
				appHours := appSeconds[app] / 3600
				if appHours <= flowThreshold {
					continue
				}
				display := DisplayAppName(app)
				nodeID := "app-" + display
				if !seenApps[display] {
					seenApps[display] = true
					flow.Nodes = append(flow.Nodes, FlowNode{ID: nodeID, Name: display, Kind: "app"})
				}
				flow.Links = append(flow.Links, FlowLink{Source: emp.ID, Target: nodeID, Value: appHours})
			}
		}

		if len(sparkline) > sparklineLength {
			sparkline = sparkline[len(sparkline)-sparklineLength:]
		}

		snap := EmployeeSnapshot{
			ID:         emp.ID,
			Name:       emp.Profile.Name,
			Email:      emp.Profile.Email,
			Role:       emp.Profile.Role,
			IsOnline:   emp.IsOnline(),
			Location:   remoteLocation,
			HoursToday: FormatHours(todaySeconds, 1),
			TotalHours: FormatHours(totalSeconds, 1),
			PrevHours:  sparkline,
		}
		if emp.Heartbeat != nil {
			snap.LastActiveWindow = emp.Heartbeat.LastActiveWindow
		}
		if loc := emp.Profile.LastLoginLocation; loc != nil && loc.City != "" {
			snap.Location = loc.City
		}
		snapshots = append(snapshots, snap)
	}

	return Workforce{
		Employees:   snapshots,
		Performance: performanceHorizon(buckets, currentHour),
		Flow:        flow,
	}
}

// performanceHorizon 已過時段顯示實際值；目前時段同時作為預估起點；之後以平均時速外推
func performanceHorizon(buckets [24]float64, currentHour int) []HorizonPoint {
	var soFar float64
	for i := 0; i <= currentHour && i < len(buckets); i++ {
		soFar += buckets[i]
	}
	var avgRate float64
	if soFar > 0 {
		avgRate = soFar / float64(currentHour+1)
	}

	points := make([]HorizonPoint, 0, len(buckets))
	for i, actual := range buckets {
		p := HorizonPoint{Date: pad2(i) + ":00"}
		if i <= currentHour {
			v := actual
			p.ActualHours = &v
		}
		switch {
		case i == currentHour:
			v := actual
			p.ProjectedHours = &v
		case i > currentHour:
			v := avgRate
			p.ProjectedHours = &v
		}
		points = append(points, p)
	}
	return points
}

type pulseHour struct {
	key   string
	index int
	valid bool
}

// pulseHours 依小時排序 hourlyPulse 的鍵；無法解析的鍵排在最後且 valid=false
func pulseHours(pulse map[string]model.PulseMetrics) []pulseHour {
	hours := make([]pulseHour, 0, len(pulse))
	for key := range pulse {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		hours = append(hours, pulseHour{key: key, index: idx, valid: err == nil && idx >= 0 && idx < 24})
	}
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].valid != hours[j].valid {
			return hours[i].valid
		}
		if hours[i].index != hours[j].index {
			return hours[i].index < hours[j].index
		}
		return hours[i].key < hours[j].key
	})
	return hours
}

func pad2(i int) string {
	if i < 10 {
		return "0" + strconv.Itoa(i)
	}
	return strconv.Itoa(i)
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
