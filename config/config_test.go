package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackingDefaults(t *testing.T) {
	var tr Tracking

	assert.Equal(t, time.UTC, tr.Location())
	assert.Equal(t, 250*time.Millisecond, tr.PublishDebounce())
	assert.Equal(t, 10*time.Minute, tr.StatsTTL())
	assert.Equal(t, int64(30), tr.HistoryLimitOrDefault())
	assert.Equal(t, int64(5), tr.TimeEntryLimitOrDefault())
	assert.Equal(t, 1, tr.EvidenceDaysOrDefault())
	assert.Equal(t, "0 0 0 * * *", tr.RolloverSpecOrDefault())
}

func TestTrackingOverrides(t *testing.T) {
	tr := Tracking{
		Timezone:          "not/a-zone",
		PublishDebounceMs: 1000,
		StatsTTLSeconds:   30,
		HistoryLimit:      60,
	}

	assert.Equal(t, time.UTC, tr.Location(), "invalid zone falls back to UTC")
	assert.Equal(t, time.Second, tr.PublishDebounce())
	assert.Equal(t, 30*time.Second, tr.StatsTTL())
	assert.Equal(t, int64(60), tr.HistoryLimitOrDefault())
}

func TestTrackingPublishDebounceDisabled(t *testing.T) {
	tr := Tracking{PublishDebounceMs: -1}
	assert.Equal(t, time.Duration(0), tr.PublishDebounce())
}

func TestTrackingLoadLocation(t *testing.T) {
	loc, err := Tracking{Timezone: "Asia/Taipei"}.LoadLocation()
	assert.NoError(t, err)
	assert.Equal(t, "Asia/Taipei", loc.String())

	loc, err = Tracking{Timezone: "not/a-zone"}.LoadLocation()
	assert.Error(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestSinkDefaults(t *testing.T) {
	var conf Configuration

	assert.False(t, conf.Redis.Enabled())
	assert.Equal(t, "trac", conf.Redis.KeyPrefixOrDefault())
	assert.False(t, conf.Fluentd.Enabled())
	assert.Equal(t, "trac", conf.Fluentd.TagPrefixOrDefault())
	assert.Equal(t, time.Duration(0), conf.Fluentd.TimeoutDuration())
	assert.Equal(t, float64(1), conf.Telemetry.Trace.SampleRatioOrDefault())
	assert.Equal(t, 5*time.Second, conf.App.ShutdownTimeout())
	assert.False(t, conf.App.IsProduction())

	conf.Redis = Redis{Host: "redis", KeyPrefix: "staging"}
	conf.Fluentd = Fluentd{Host: "fluentd", Timeout: 1500}
	conf.Telemetry.Trace.SampleRatio = 0.25
	conf.App.ShutdownTimeoutSeconds = 20

	assert.True(t, conf.Redis.Enabled())
	assert.Equal(t, "staging", conf.Redis.KeyPrefixOrDefault())
	assert.Equal(t, 1500*time.Millisecond, conf.Fluentd.TimeoutDuration())
	assert.Equal(t, 0.25, conf.Telemetry.Trace.SampleRatioOrDefault())
	assert.Equal(t, 20*time.Second, conf.App.ShutdownTimeout())
}
