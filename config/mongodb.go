package config

// MongoDB 快照來源使用 change stream，URI 必須指向 replica set
type MongoDB struct {
	URI string `mapstructure:"URI" json:"uri" yaml:"uri"`
	// 附加在 URI 後的連線參數，例如 replicaSet=rs0&retryWrites=true
	Options  string `mapstructure:"OPTIONS" json:"options" yaml:"options"`
	Database string `mapstructure:"DATABASE" json:"database" yaml:"database"`
}
