package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trac/config"
	"trac/internal/aggregate"
	"trac/internal/core"
	client "trac/internal/database/client"
	"trac/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

var (
	ErrStatsNotFound = errors.New("stats not cached")
	ErrCacheDisabled = errors.New("stats cache disabled")
)

// CachedStats 快取中的組織統計與計算時間
type CachedStats struct {
	OrgID      string          `json:"orgId"`
	Stats      aggregate.Stats `json:"stats"`
	ComputedAt time.Time       `json:"computedAt"`
}

// StatsRepository 最近一次重算的組織統計，供其他程序讀取；Redis 停用時寫入為 no-op
type StatsRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewStatsRepository(config *config.Configuration, trace *telemetry.Trace, client *client.RedisClient) *StatsRepository {
	return &StatsRepository{
		trace:  trace,
		client: client.Client(),
		ttl:    config.Tracking.StatsTTL(),
		prefix: config.Redis.KeyPrefixOrDefault(),
	}
}

// Save 覆寫組織統計並重設 TTL
func (repository *StatsRepository) Save(
	contextValue context.Context,
	organizationIdentifier string,
	stats aggregate.Stats,
	computedAt time.Time,
) (returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceStatsPublishMeta{
		OrgID:           organizationIdentifier,
		ActiveEmployees: stats.ActiveEmployees,
		TotalStaff:      stats.TotalStaff,
		TotalHoursToday: stats.TotalHoursToday,
		Sink:            "redis",
	})

	if repository.client == nil {
		return nil
	}
	payload, marshalError := json.Marshal(CachedStats{OrgID: organizationIdentifier, Stats: stats, ComputedAt: computedAt.UTC()})
	if marshalError != nil {
		returnedError = marshalError
		return returnedError
	}
	returnedError = repository.client.Set(contextValue, repository.buildKey(organizationIdentifier), payload, repository.ttl).Err()
	return returnedError
}

// Get 讀取組織統計；不存在時回傳 ErrStatsNotFound
func (repository *StatsRepository) Get(
	contextValue context.Context,
	organizationIdentifier string,
) (_ *CachedStats, returnedError error) {

	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	if repository.client == nil {
		return nil, ErrCacheDisabled
	}
	payload, getError := repository.client.Get(contextValue, repository.buildKey(organizationIdentifier)).Bytes()
	if errors.Is(getError, redis.Nil) {
		return nil, ErrStatsNotFound
	}
	if getError != nil {
		returnedError = getError
		return nil, returnedError
	}

	var cached CachedStats
	if returnedError = json.Unmarshal(payload, &cached); returnedError != nil {
		return nil, returnedError
	}
	return &cached, nil
}

// Delete 移除組織統計
func (repository *StatsRepository) Delete(contextValue context.Context, organizationIdentifier string) (returnedError error) {
	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	if repository.client == nil {
		return nil
	}
	returnedError = repository.client.Del(contextValue, repository.buildKey(organizationIdentifier)).Err()
	return returnedError
}

// buildKey {prefix}:stats:{orgId}
func (repository *StatsRepository) buildKey(organizationIdentifier string) string {
	return fmt.Sprintf("%s:%s:%s", repository.prefix, core.RedisKeyOrgStats, organizationIdentifier)
}
