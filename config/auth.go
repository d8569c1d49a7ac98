package config

// Auth 驗證身分提供者簽發的 Bearer Token
type Auth struct {
	// HMAC 簽章金鑰
	JWTSecret string `mapstructure:"JWT_SECRET" json:"jwt_secret" yaml:"jwt_secret"`
	// 若設定，token 的 iss 必須相符
	Issuer string `mapstructure:"ISSUER" json:"issuer" yaml:"issuer"`
}
