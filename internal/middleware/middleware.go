package middleware

import (
	"trac/internal/database/fluentd/repository"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewTraceEntry,
	NewCors,
	NewLogger,
	NewRecovery,
	NewResponse,
	NewAuth,
	wire.Bind(new(RequestLogSink), new(*repository.LogRepository)),
	wire.Bind(new(ResponseLogSink), new(*repository.LogRepository)),
)
