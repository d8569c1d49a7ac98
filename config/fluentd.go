package config

import "time"

// Fluentd 稽核事件（session / 統計 / API 存取紀錄）的 forward 目的地；Host 留空即停用
type Fluentd struct {
	Host      string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port      int    `mapstructure:"PORT" json:"port" yaml:"port"`
	TagPrefix string `mapstructure:"TAG_PREFIX" json:"tagPrefix" yaml:"tagPrefix"`
	// 毫秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
	// 同步送出（預設非同步，失敗不阻塞請求）
	Sync     bool `mapstructure:"SYNC" json:"sync" yaml:"sync"`
	MaxRetry int  `mapstructure:"MAX_RETRY" json:"maxRetry" yaml:"maxRetry"`
}

func (f Fluentd) Enabled() bool { return f.Host != "" }

func (f Fluentd) TagPrefixOrDefault() string {
	if f.TagPrefix == "" {
		return "trac"
	}
	return f.TagPrefix
}

func (f Fluentd) TimeoutDuration() time.Duration {
	if f.Timeout <= 0 {
		return 0
	}
	return time.Duration(f.Timeout) * time.Millisecond
}
