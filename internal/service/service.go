package service

import (
	"trac/internal/database/mongodb/repository"
	"trac/internal/tracking"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewStatsPublisher,
	wire.Bind(new(tracking.Publisher), new(*StatsPublisher)),
	wire.Bind(new(tracking.ProfileStore), new(*repository.UserRepository)),
	NewTeamService,
	NewHealthService,
)
