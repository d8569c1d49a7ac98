package config

type MetricConfig struct {
	Enabled bool      `yaml:"enabled" mapstructure:"ENABLED" json:"enabled"`
	Buckets []float64 `yaml:"buckets" mapstructure:"BUCKETS" json:"buckets"`
}

type TraceConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"ENABLED" json:"enabled"`
	EndpointUrl string `yaml:"endpointUrl" mapstructure:"ENDPOINT_URL" json:"endpointUrl"`
	// 0 < ratio <= 1；未設定為全取樣
	SampleRatio float64 `yaml:"sampleRatio" mapstructure:"SAMPLE_RATIO" json:"sampleRatio"`
}

type TelemetryConfig struct {
	Metric MetricConfig `yaml:"metric" mapstructure:"METRIC" json:"metric"`
	Trace  TraceConfig  `yaml:"trace" mapstructure:"TRACE" json:"trace"`
}

func (t TraceConfig) SampleRatioOrDefault() float64 {
	if t.SampleRatio <= 0 || t.SampleRatio > 1 {
		return 1
	}
	return t.SampleRatio
}
