package config

// Redis 組織統計快取；Host 留空即停用（讀取快取回 503）
type Redis struct {
	Host     string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port     int    `mapstructure:"PORT" json:"port" yaml:"port"`
	Password string `mapstructure:"PASSWORD" json:"password" yaml:"password"`
	DB       int    `mapstructure:"DB" json:"db" yaml:"db"`
	// key 前綴，多個部署共用同一個 Redis 時區隔用
	KeyPrefix string `mapstructure:"KEY_PREFIX" json:"keyPrefix" yaml:"keyPrefix"`
}

func (r Redis) Enabled() bool { return r.Host != "" }

func (r Redis) KeyPrefixOrDefault() string {
	if r.KeyPrefix == "" {
		return "trac"
	}
	return r.KeyPrefix
}
