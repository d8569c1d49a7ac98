package tracking

import (
	"trac/config"
	"trac/internal/snapshot"
	"trac/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(ProvideManager)

// ProvideManager 給 wire 使用的非 variadic 版本
func ProvideManager(
	conf *config.Configuration,
	logger *zap.Logger,
	source snapshot.Source,
	profiles ProfileStore,
	publisher Publisher,
	metric *telemetry.Metric,
	trace *telemetry.Trace,
) (*Manager, func()) {
	return NewManager(conf, logger, source, profiles, publisher, metric, trace)
}
