package model

// SessionEventLog 觀察者 session 生命週期事件
type SessionEventLog struct {
	Type          string `bson:"type" json:"type"`
	SessionID     string `bson:"session_id" json:"session_id"`
	ActorID       string `bson:"actor_id" json:"actor_id"`
	OrgID         string `bson:"org_id,omitempty" json:"org_id,omitempty"`
	PreviousOrgID string `bson:"previous_org_id,omitempty" json:"previous_org_id,omitempty"`
	Day           string `bson:"day,omitempty" json:"day,omitempty"`
	Personnel     int    `bson:"personnel" json:"personnel"`
	Version       string `bson:"version,omitempty" json:"version,omitempty"`
	EventTS       string `bson:"event_ts" json:"event_ts"`
	LoggedAt      string `bson:"logged_at" json:"logged_at"`
}
