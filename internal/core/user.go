package core

type Role string

const (
	RoleOwner    Role = "Owner"    // 組織擁有者
	RoleEmployee Role = "Employee" // 受監測的員工
)

type ShiftStatus string

const (
	ShiftStatusActive ShiftStatus = "active"
	ShiftStatusEnded  ShiftStatus = "ended"
)

// AttendanceStatus 出勤月曆上每一天的分類
type AttendanceStatus string

const (
	AttendanceNotYetJoined AttendanceStatus = "before"
	AttendanceFuture       AttendanceStatus = "future"
	AttendanceTodayPending AttendanceStatus = "today"
	AttendancePresent      AttendanceStatus = "present"
	AttendanceAbsent       AttendanceStatus = "absent"
)

// SessionEventType 寫入 Fluentd 的 session 生命週期事件
type SessionEventType string

const (
	SessionEventSignIn    SessionEventType = "sign_in"
	SessionEventSignOut   SessionEventType = "sign_out"
	SessionEventOrgSwitch SessionEventType = "org_switch"
	SessionEventTeardown  SessionEventType = "teardown"
	SessionEventRollover  SessionEventType = "day_rollover"
)
