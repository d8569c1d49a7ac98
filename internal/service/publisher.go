package service

import (
	"context"
	"sync"
	"time"

	"trac/config"
	"trac/internal/aggregate"
	"trac/internal/core"
	fluentdModel "trac/internal/database/fluentd/model"
	fluentdRepo "trac/internal/database/fluentd/repository"
	redisRepo "trac/internal/database/redis/repository"
	"trac/internal/telemetry"
	"trac/internal/tracking"

	"go.uber.org/zap"
)

const (
	publishTimeout = 5 * time.Second
	sinkRedis      = "redis"
	sinkFluentd    = "fluentd"
)

// StatsStore 組織統計快取
type StatsStore interface {
	Save(ctx context.Context, orgID string, stats aggregate.Stats, computedAt time.Time) error
}

// EventLog session 事件與統計快照的落地
type EventLog interface {
	LogSessionEvent(ctx context.Context, event fluentdModel.SessionEventLog) error
	LogOrgStats(ctx context.Context, stats fluentdModel.OrgStatsLog) error
}

// StatsPublisher 以組織為單位 debounce，寫入 Redis 快取與 Fluentd。
// PublishStats / PublishEvent 不阻塞呼叫端（呼叫端持有 session 鎖）。
type StatsPublisher struct {
	logger   *zap.Logger
	metric   *telemetry.Metric
	trace    *telemetry.Trace
	store    StatsStore
	events   EventLog
	debounce time.Duration
	clock    func() time.Time

	mu      sync.Mutex
	closed  bool
	pending map[string]aggregate.Stats
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
}

var _ tracking.Publisher = (*StatsPublisher)(nil)

func NewStatsPublisher(
	conf *config.Configuration,
	logger *zap.Logger,
	metric *telemetry.Metric,
	trace *telemetry.Trace,
	redisRepositories *redisRepo.RedisRepository,
	fluentdRepositories *fluentdRepo.FluentdRepository,
) (*StatsPublisher, func()) {
	publisher := newStatsPublisher(logger, metric, trace, redisRepositories.Stats, fluentdRepositories.Log, conf.Tracking.PublishDebounce())
	cleanup := func() {
		logger.Info("flushing pending org stats")
		publisher.Close()
	}
	return publisher, cleanup
}

func newStatsPublisher(logger *zap.Logger, metric *telemetry.Metric, trace *telemetry.Trace, store StatsStore, events EventLog, debounce time.Duration) *StatsPublisher {
	return &StatsPublisher{
		logger:   logger,
		metric:   metric,
		trace:    trace,
		store:    store,
		events:   events,
		debounce: debounce,
		clock:    time.Now,
		pending:  map[string]aggregate.Stats{},
		timers:   map[string]*time.Timer{},
	}
}

// PublishStats 同一組織在 debounce 期間內只寫最後一筆
func (p *StatsPublisher) PublishStats(orgID string, stats aggregate.Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || orgID == "" {
		return
	}
	p.pending[orgID] = stats
	if _, scheduled := p.timers[orgID]; scheduled {
		return
	}
	p.wg.Add(1)
	p.timers[orgID] = time.AfterFunc(p.debounce, func() {
		defer p.wg.Done()
		p.flush(orgID)
	})
}

func (p *StatsPublisher) PublishEvent(event tracking.SessionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := p.events.LogSessionEvent(ctx, fluentdModel.SessionEventLog{
		Type:          string(event.Type),
		SessionID:     event.SessionID,
		ActorID:       event.ActorID,
		OrgID:         event.OrgID,
		PreviousOrgID: event.PreviousOrgID,
		Day:           event.Day,
		Personnel:     event.Personnel,
		EventTS:       event.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		p.metric.PublishFailed(sinkFluentd)
		p.logger.Warn("failed to log session event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// Close 立即寫出所有尚未到期的統計並等待完成
func (p *StatsPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	var early []string
	for orgID, timer := range p.timers {
		if timer.Stop() {
			early = append(early, orgID)
		}
	}
	p.mu.Unlock()

	for _, orgID := range early {
		p.flush(orgID)
		p.wg.Done()
	}
	p.wg.Wait()
}

func (p *StatsPublisher) flush(orgID string) {
	p.mu.Lock()
	stats, ok := p.pending[orgID]
	delete(p.pending, orgID)
	delete(p.timers, orgID)
	p.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	ctx, span, end := p.trace.WithSpan(ctx, string(core.SpanStatsPublish))
	var err error
	defer func() { end(err) }()
	p.trace.ApplyTraceAttributes(span, core.TraceStatsPublishMeta{
		OrgID:           orgID,
		ActiveEmployees: stats.ActiveEmployees,
		TotalStaff:      stats.TotalStaff,
		TotalHoursToday: stats.TotalHoursToday,
	})

	computedAt := p.clock()
	if saveErr := p.store.Save(ctx, orgID, stats, computedAt); saveErr != nil {
		err = saveErr
		p.metric.PublishFailed(sinkRedis)
		p.logger.Warn("failed to cache org stats", zap.String("orgId", orgID), zap.Error(saveErr))
	}

	topApps := make([]string, 0, len(stats.TopApps))
	for _, app := range stats.TopApps {
		topApps = append(topApps, app.Name)
	}
	if logErr := p.events.LogOrgStats(ctx, fluentdModel.OrgStatsLog{
		OrgID:           orgID,
		TotalHoursToday: stats.TotalHoursToday,
		TotalOrgHours:   stats.TotalOrgHours,
		ActiveEmployees: stats.ActiveEmployees,
		TotalStaff:      stats.TotalStaff,
		Velocity:        stats.Velocity,
		TopApps:         topApps,
		ComputedAt:      computedAt.UTC().Format(time.RFC3339Nano),
	}); logErr != nil {
		if err == nil {
			err = logErr
		}
		p.metric.PublishFailed(sinkFluentd)
		p.logger.Warn("failed to log org stats", zap.String("orgId", orgID), zap.Error(logErr))
	}
}
