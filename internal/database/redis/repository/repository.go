package repository

import (
	"github.com/google/wire"
)

// 統一管理所有 Redis repository
type RedisRepository struct {
	Stats *StatsRepository
}

// 建立 Redis repository 物件
func NewRedisRepository(
	statsRepository *StatsRepository,
) *RedisRepository {
	return &RedisRepository{
		Stats: statsRepository,
	}
}

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewStatsRepository,
	NewRedisRepository)
