package model

// RequestLog API 請求紀錄
type RequestLog struct {
	RequestID   string `bson:"request_id" json:"request_id"`
	ActorID     string `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	Method      string `bson:"method" json:"method"`
	Path        string `bson:"path" json:"path"`
	Query       string `bson:"query,omitempty" json:"query,omitempty"`
	ProjectName string `bson:"project_name" json:"project_name"`
	IPHash      string `bson:"ip_hash" json:"ip_hash"`
	UserAgent   string `bson:"user_agent" json:"user_agent"`
	Version     string `bson:"version,omitempty" json:"version,omitempty"`
	RequestTS   string `bson:"request_ts" json:"request_ts"`
}

// ResponseLog API 回應紀錄；Error 僅在失敗時有值
type ResponseLog struct {
	RequestID   string `bson:"request_id" json:"request_id"`
	ProjectName string `bson:"project_name" json:"project_name"`
	Code        int    `bson:"code" json:"code"`
	StatusCode  int    `bson:"status_code" json:"status_code"`
	Error       string `bson:"error,omitempty" json:"error,omitempty"`
	DurationMs  int64  `bson:"duration_ms" json:"duration_ms"`
	Version     string `bson:"version,omitempty" json:"version,omitempty"`
	ResponseTS  string `bson:"response_ts" json:"response_ts"`
}
