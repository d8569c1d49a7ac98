package service

import (
	"context"
	"sync/atomic"

	"trac/internal/core"
	client "trac/internal/database/client"

	"go.uber.org/zap"
)

// Pinger 可做連線檢查的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	live   atomic.Bool
	ready  atomic.Bool
	logger *zap.Logger
	deps   map[core.DatabaseType]Pinger
}

func NewHealthService(logger *zap.Logger, mongoClient *client.MongoClient, redisClient *client.RedisClient) *HealthService {
	return newHealthService(logger, map[core.DatabaseType]Pinger{
		core.Mongo: mongoClient,
		core.Redis: redisClient,
	})
}

func newHealthService(logger *zap.Logger, deps map[core.DatabaseType]Pinger) *HealthService {
	s := &HealthService{logger: logger, deps: deps}
	s.live.Store(true)
	s.ready.Store(false) // 啟動完成後再打開
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

// IsReady 啟動完成且所有依賴都可連線
func (s *HealthService) IsReady(ctx context.Context) bool {
	if !s.ready.Load() {
		return false
	}
	for _, status := range s.Check(ctx) {
		if status != "ok" {
			return false
		}
	}
	return true
}

// Check 逐一 ping 依賴，回傳 "ok" 或錯誤訊息
func (s *HealthService) Check(ctx context.Context) map[core.DatabaseType]string {
	result := make(map[core.DatabaseType]string, len(s.deps))
	for _, name := range core.Databases {
		dep, ok := s.deps[name]
		if !ok || dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			s.logger.Warn("dependency ping failed", zap.String("dependency", string(name)), zap.Error(err))
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}
	return result
}
