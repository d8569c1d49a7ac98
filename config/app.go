package config

import "time"

type App struct {
	// 當前開發環境：production / test / 其餘視為 debug
	Env string `mapstructure:"ENV" json:"env" yaml:"env"`
	// HTTP 端口
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port"`
	// 服務名稱，同時是 metric 前綴與 trace service name
	Name string `mapstructure:"NAME" json:"name" yaml:"name"`
	// 服務版本（可被 -ldflags 覆寫）
	Version        string `mapstructure:"VERSION" json:"version" yaml:"version"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
	// CORS 允許的來源；留空代表全部允許（不帶 credentials）
	AllowOrigins []string `mapstructure:"ALLOW_ORIGINS" json:"allow_origins" yaml:"allow_origins"`
	// 收到 SIGTERM 後等待 session 與 server 關閉的秒數
	ShutdownTimeoutSeconds int64 `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
}

func (a App) IsProduction() bool { return a.Env == "production" }

func (a App) ShutdownTimeout() time.Duration {
	if a.ShutdownTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(a.ShutdownTimeoutSeconds) * time.Second
}
