package config

type Log struct {
	// debug / info / warn / error / dpanic / panic / fatal
	Level string `mapstructure:"LEVEL" json:"level" yaml:"level"`
	// json（預設）或 console
	Encoding string `mapstructure:"ENCODING" json:"encoding" yaml:"encoding"`
}
