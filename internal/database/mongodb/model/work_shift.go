package model

import (
	"strings"
	"time"

	"trac/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkShift 單一班次；ShiftID 以 yyyy-MM-dd 開頭
type WorkShift struct {
	ShiftID         string                  `json:"id" bson:"shiftId" yaml:"id"`
	UserID          string                  `json:"userId" bson:"userId" yaml:"userId"`
	StartTime       *time.Time              `json:"startTime,omitempty" bson:"startTime,omitempty" yaml:"startTime"`
	EndTime         *time.Time              `json:"endTime,omitempty" bson:"endTime,omitempty" yaml:"endTime"`
	Status          core.ShiftStatus        `json:"status,omitempty" bson:"status,omitempty" yaml:"status"`
	LiveMetrics     LiveMetrics             `json:"liveMetrics" bson:"liveMetrics" yaml:"liveMetrics"`
	LiveBreakdown   map[string]float64      `json:"liveBreakdown,omitempty" bson:"liveBreakdown,omitempty" yaml:"liveBreakdown"` // 應用程式 → 秒數
	HourlyPulse     map[string]PulseMetrics `json:"hourlyPulse,omitempty" bson:"hourlyPulse,omitempty" yaml:"hourlyPulse"`       // "00".."23"
	CognitiveReport *CognitiveReport        `json:"cognitiveReport,omitempty" bson:"cognitiveReport,omitempty" yaml:"cognitiveReport"`
}

type LiveMetrics struct {
	TotalSeconds  float64 `json:"totalSeconds" bson:"totalSeconds" yaml:"totalSeconds"`
	IdleSeconds   float64 `json:"idleSeconds" bson:"idleSeconds" yaml:"idleSeconds"`
	ActiveSeconds float64 `json:"activeSeconds" bson:"activeSeconds" yaml:"activeSeconds"`
}

type PulseMetrics struct {
	Seconds       float64 `json:"seconds" bson:"seconds" yaml:"seconds"`
	Keystrokes    float64 `json:"keystrokes" bson:"keystrokes" yaml:"keystrokes"`
	MouseClicks   float64 `json:"mouseClicks" bson:"mouseClicks" yaml:"mouseClicks"`
	MouseDistance float64 `json:"mouseDistance" bson:"mouseDistance" yaml:"mouseDistance"`
}

type CognitiveReport struct {
	FocusScore        float64 `json:"focusScore" bson:"focusScore" yaml:"focusScore"`
	ProductivityScore float64 `json:"productivityScore" bson:"productivityScore" yaml:"productivityScore"`
	Velocity          float64 `json:"velocity" bson:"velocity" yaml:"velocity"`
	AIBrief           string  `json:"aiBrief,omitempty" bson:"aiBrief,omitempty" yaml:"aiBrief"`
}

// OnDay 班次 ID 是否以 day（yyyy-MM-dd）開頭
func (s WorkShift) OnDay(day string) bool {
	return day != "" && strings.HasPrefix(s.ShiftID, day)
}

// DocumentID work_shifts 的 _id：userId/shiftId
func (s WorkShift) DocumentID() string {
	return s.UserID + "/" + s.ShiftID
}

// Clone 深拷貝 map 與指標欄位
func (s WorkShift) Clone() WorkShift {
	out := s
	if s.StartTime != nil {
		t := *s.StartTime
		out.StartTime = &t
	}
	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}
	if s.LiveBreakdown != nil {
		out.LiveBreakdown = make(map[string]float64, len(s.LiveBreakdown))
		for k, v := range s.LiveBreakdown {
			out.LiveBreakdown[k] = v
		}
	}
	if s.HourlyPulse != nil {
		out.HourlyPulse = make(map[string]PulseMetrics, len(s.HourlyPulse))
		for k, v := range s.HourlyPulse {
			out.HourlyPulse[k] = v
		}
	}
	if s.CognitiveReport != nil {
		r := *s.CognitiveReport
		out.CognitiveReport = &r
	}
	return out
}

var WorkShiftIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "shiftId", Value: 1}},
		Options: options.Index().SetName("idx_userId_shiftId"),
	},
	{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startTime", Value: -1}},
		Options: options.Index().SetName("idx_userId_startTime_desc"),
	},
}
