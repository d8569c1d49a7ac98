package dto

import (
	"time"

	"trac/internal/aggregate"
)

// 登入追蹤 session 的回應
type SessionResponseDto struct {
	SessionID string `json:"sessionId"`
	ActorID   string `json:"actorId"`
	OrgID     string `json:"orgId"`
	Day       string `json:"day"`
	Created   bool   `json:"created"` // false 表示沿用既有 session
}

// 組織總覽
type OverviewResponseDto struct {
	OrgID   string          `json:"orgId"`
	OrgName string          `json:"orgName"`
	Day     string          `json:"day"`
	Stats   aggregate.Stats `json:"stats"`
}

// Redis 快取中的組織統計
type CachedStatsResponseDto struct {
	OrgID      string          `json:"orgId"`
	Stats      aggregate.Stats `json:"stats"`
	ComputedAt time.Time       `json:"computedAt"`
}
