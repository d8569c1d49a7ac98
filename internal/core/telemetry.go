package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanAuthMiddleware     TraceSpanName = "auth_middleware"
	SpanSessionSignIn      TraceSpanName = "session_sign_in"
	SpanSessionTeardown    TraceSpanName = "session_teardown"
	SpanSessionRollover    TraceSpanName = "session_rollover"
	SpanStatsPublish       TraceSpanName = "stats_publish"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal         MetricName = "requests_total"
	MetricHttpRequestDuration       MetricName = "request_duration_seconds"
	MetricActiveSubscriptions       MetricName = "active_subscriptions"
	MetricSnapshotDeliveriesTotal   MetricName = "snapshot_deliveries_total"
	MetricSnapshotErrorsTotal       MetricName = "snapshot_errors_total"
	MetricStaleCallbacksTotal       MetricName = "stale_callbacks_total"
	MetricRecomputeDuration         MetricName = "recompute_duration_seconds"
	MetricTrackedPersonnel          MetricName = "tracked_personnel"
	MetricActiveSessions            MetricName = "active_sessions"
	MetricStatsPublishFailuresTotal MetricName = "stats_publish_failures_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelKind     MetricLabelName = "kind"
	MetricLabelOrg      MetricLabelName = "org"
	MetricLabelSink     MetricLabelName = "sink"
)

// SubscriptionKind 訂閱種類，作為 metric label 與 log 欄位
type SubscriptionKind string

const (
	SubscriptionActorProfile   SubscriptionKind = "actor_profile"
	SubscriptionOrganization   SubscriptionKind = "organization"
	SubscriptionMembers        SubscriptionKind = "members"
	SubscriptionOwners         SubscriptionKind = "owners"
	SubscriptionHeartbeat      SubscriptionKind = "heartbeat"
	SubscriptionTodayShifts    SubscriptionKind = "today_shifts"
	SubscriptionProfile        SubscriptionKind = "profile"
	SubscriptionShiftHistory   SubscriptionKind = "shift_history"
	SubscriptionTimeEntries    SubscriptionKind = "time_entries"
	SubscriptionScreenshotsDay SubscriptionKind = "screenshots_day"
)

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

type TraceAuthMiddlewareMeta struct {
	ActorID string `trace:"auth.actor_id"`
	Issuer  string `trace:"auth.issuer"`
	Status  string `trace:"auth.status"`
}

// session 建立、組織切換與拆除時寫入 span
type TraceSessionMeta struct {
	SessionID     string `trace:"session.id"`
	ActorID       string `trace:"session.actor_id"`
	OrgID         string `trace:"session.org_id"`
	PreviousOrgID string `trace:"session.previous_org_id"`
	Generation    int64  `trace:"session.generation"`
	Subscriptions int    `trace:"session.subscriptions"`
	Personnel     int    `trace:"session.personnel"`
	Day           string `trace:"session.day"`
}

type TraceStatsPublishMeta struct {
	OrgID           string `trace:"stats.org_id"`
	ActiveEmployees int    `trace:"stats.active_employees"`
	TotalStaff      int    `trace:"stats.total_staff"`
	TotalHoursToday string `trace:"stats.total_hours_today"`
	Sink            string `trace:"stats.sink"`
}

type LoggerRequestMeta struct {
	Method     string            `trace:"http.method"`
	Path       string            `trace:"http.path"`
	FullPath   string            `trace:"http.route"`
	Query      string            `trace:"http.query"`
	Body       string            `trace:"http.request.body"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}
