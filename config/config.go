package config

// Configuration 對應環境變數 <SECTION>__<KEY>，例如 TRACKING__TIMEZONE
type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Auth      Auth            `mapstructure:"AUTH" json:"auth" yaml:"auth"`
	MongoDB   MongoDB         `mapstructure:"MONGODB" json:"mongodb" yaml:"mongodb"`
	Redis     Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" json:"fluentd" yaml:"fluentd"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" json:"telemetry" yaml:"telemetry"`
	Tracking  Tracking        `mapstructure:"TRACKING" json:"tracking" yaml:"tracking"`
}
