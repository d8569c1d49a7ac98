//go:build wireinject
// +build wireinject

package main

import (
	"trac/config"
	"trac/internal/command"
	"trac/internal/cron"
	"trac/internal/database"
	"trac/internal/handler"
	"trac/internal/middleware"
	"trac/internal/router"
	"trac/internal/service"
	"trac/internal/telemetry"
	"trac/internal/tracking"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			telemetry.ProviderSet,
			tracking.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			newApp,
		),
	)
}

// wireCommand init application.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(wire.Build(database.ProviderSet, command.ProviderSet))
}
