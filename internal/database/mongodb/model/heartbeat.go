package model

import "time"

// Heartbeat 桌面端回報的即時狀態（users/{id}/live/heartbeat），_id 即 userId
type Heartbeat struct {
	UserID             string     `json:"userId" bson:"_id" yaml:"userId"`
	IsCurrentlyRunning bool       `json:"isCurrentlyRunning" bson:"isCurrentlyRunning" yaml:"isCurrentlyRunning"`
	LastActiveWindow   string     `json:"lastActiveWindow,omitempty" bson:"lastActiveWindow,omitempty" yaml:"lastActiveWindow"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty" yaml:"updatedAt"`
}
