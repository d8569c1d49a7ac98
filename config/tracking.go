package config

import (
	"fmt"
	"time"
)

const defaultPublishDebounce = 250 * time.Millisecond

type Tracking struct {
	// IANA 時區，決定「今天」的日期前綴，例如 Asia/Taipei
	Timezone string `mapstructure:"TIMEZONE" json:"timezone" yaml:"timezone"`
	// 單一員工明細頁的班次歷史筆數
	HistoryLimit int64 `mapstructure:"HISTORY_LIMIT" json:"history_limit" yaml:"history_limit"`
	// 單一員工明細頁的 time entry 筆數
	TimeEntryLimit int64 `mapstructure:"TIME_ENTRY_LIMIT" json:"time_entry_limit" yaml:"time_entry_limit"`
	// 截圖往回訂閱的天數
	EvidenceDays int `mapstructure:"EVIDENCE_DAYS" json:"evidence_days" yaml:"evidence_days"`
	// 統計對外發布（Redis / Fluentd）的防抖毫秒數，未設定為 250，負值代表不防抖
	PublishDebounceMs int64 `mapstructure:"PUBLISH_DEBOUNCE_MS" json:"publish_debounce_ms" yaml:"publish_debounce_ms"`
	// 統計快取在 Redis 的存活秒數
	StatsTTLSeconds int64 `mapstructure:"STATS_TTL_SECONDS" json:"stats_ttl_seconds" yaml:"stats_ttl_seconds"`
	// 換日重訂閱的 cron 表達式（含秒）
	RolloverSpec string `mapstructure:"ROLLOVER_SPEC" json:"rollover_spec" yaml:"rollover_spec"`
}

// Location 解析設定的時區，失敗時退回 UTC；需要告警時改用 LoadLocation
func (t Tracking) Location() *time.Location {
	loc, err := t.LoadLocation()
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadLocation 未設定時為 UTC；時區名稱無效時回傳 UTC 與錯誤
func (t Tracking) LoadLocation() (*time.Location, error) {
	if t.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("load tracking timezone %q: %w", t.Timezone, err)
	}
	return loc, nil
}

// PublishDebounce 未設定時為 250ms；負值代表不防抖
func (t Tracking) PublishDebounce() time.Duration {
	switch {
	case t.PublishDebounceMs < 0:
		return 0
	case t.PublishDebounceMs == 0:
		return defaultPublishDebounce
	}
	return time.Duration(t.PublishDebounceMs) * time.Millisecond
}

func (t Tracking) StatsTTL() time.Duration {
	if t.StatsTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(t.StatsTTLSeconds) * time.Second
}

func (t Tracking) HistoryLimitOrDefault() int64 {
	if t.HistoryLimit <= 0 {
		return 30
	}
	return t.HistoryLimit
}

func (t Tracking) TimeEntryLimitOrDefault() int64 {
	if t.TimeEntryLimit <= 0 {
		return 5
	}
	return t.TimeEntryLimit
}

func (t Tracking) EvidenceDaysOrDefault() int {
	if t.EvidenceDays <= 0 {
		return 1
	}
	return t.EvidenceDays
}

func (t Tracking) RolloverSpecOrDefault() string {
	if t.RolloverSpec == "" {
		return "0 0 0 * * *"
	}
	return t.RolloverSpec
}
