package database

import (
	client "trac/internal/database/client"
	fluentdRepo "trac/internal/database/fluentd/repository"
	mongoRepo "trac/internal/database/mongodb/repository"
	redisRepo "trac/internal/database/redis/repository"
	"trac/internal/snapshot"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client、repository 與快照來源的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
	snapshot.NewMongoSource,
	wire.Bind(new(snapshot.Source), new(*snapshot.MongoSource)),
)
