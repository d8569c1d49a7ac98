package model

// OrgStatsLog 組織統計快照（每次發佈一筆）
type OrgStatsLog struct {
	OrgID           string   `bson:"org_id" json:"org_id"`
	TotalHoursToday string   `bson:"total_hours_today" json:"total_hours_today"`
	TotalOrgHours   string   `bson:"total_org_hours" json:"total_org_hours"`
	ActiveEmployees int      `bson:"active_employees" json:"active_employees"`
	TotalStaff      int      `bson:"total_staff" json:"total_staff"`
	Velocity        int      `bson:"velocity" json:"velocity"`
	TopApps         []string `bson:"top_apps,omitempty" json:"top_apps,omitempty"`
	Version         string   `bson:"version,omitempty" json:"version,omitempty"`
	ComputedAt      string   `bson:"computed_at" json:"computed_at"`
	LoggedAt        string   `bson:"logged_at" json:"logged_at"`
}
