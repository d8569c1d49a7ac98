package service

import (
	"context"
	"errors"

	"trac/internal/aggregate"
	"trac/internal/core"
	redisRepo "trac/internal/database/redis/repository"
	"trac/internal/dto"
	cErr "trac/internal/pkg/error"
	"trac/internal/telemetry"
	"trac/internal/tracking"

	"go.uber.org/zap"
)

// CachedStatsReader 讀取 Redis 中的組織統計
type CachedStatsReader interface {
	Get(ctx context.Context, orgID string) (*redisRepo.CachedStats, error)
}

// TeamService HTTP 與追蹤 session 之間的轉接；錯誤一律轉為 cErr
type TeamService struct {
	trace   *telemetry.Trace
	logger  *zap.Logger
	manager *tracking.Manager
	cache   CachedStatsReader
}

func NewTeamService(trace *telemetry.Trace, logger *zap.Logger, manager *tracking.Manager, statsRepository *redisRepo.StatsRepository) *TeamService {
	return newTeamService(trace, logger, manager, statsRepository)
}

func newTeamService(trace *telemetry.Trace, logger *zap.Logger, manager *tracking.Manager, cache CachedStatsReader) *TeamService {
	return &TeamService{trace: trace, logger: logger, manager: manager, cache: cache}
}

// SignIn 建立（或沿用）actor 的追蹤 session
func (s *TeamService) SignIn(ctx context.Context, actor core.Actor) (*dto.SessionResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	var err error
	defer func() { end(err) }()

	session, created, err := s.manager.SignIn(ctx, actor)
	if err != nil {
		s.logger.Error("failed to start session", zap.String("actorId", actor.ID), zap.Error(err))
		return nil, cErr.InternalServer("failed to start session")
	}
	return &dto.SessionResponseDto{
		SessionID: session.ID(),
		ActorID:   actor.ID,
		OrgID:     session.OrgID(),
		Day:       session.Day(),
		Created:   created,
	}, nil
}

func (s *TeamService) SignOut(ctx context.Context, actorID string) error {
	_, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if err := s.manager.SignOut(actorID); err != nil {
		return mapTrackingError(err)
	}
	return nil
}

func (s *TeamService) Overview(ctx context.Context, actorID string) (*dto.OverviewResponseDto, error) {
	_, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	session, err := s.manager.Session(actorID)
	if err != nil {
		return nil, mapTrackingError(err)
	}
	overview := &dto.OverviewResponseDto{
		OrgID: session.OrgID(),
		Day:   session.Day(),
		Stats: session.Stats(),
	}
	if org := session.Organization(); org != nil {
		overview.OrgName = org.Name
	}
	return overview, nil
}

func (s *TeamService) Stats(ctx context.Context, actorID string) (*aggregate.Stats, error) {
	_, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	session, err := s.manager.Session(actorID)
	if err != nil {
		return nil, mapTrackingError(err)
	}
	stats := session.Stats()
	return &stats, nil
}

func (s *TeamService) Workforce(ctx context.Context, actorID string) (*aggregate.Workforce, error) {
	_, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	session, err := s.manager.Session(actorID)
	if err != nil {
		return nil, mapTrackingError(err)
	}
	workforce := session.Workforce()
	return &workforce, nil
}

func (s *TeamService) Employees(ctx context.Context, actorID string) ([]aggregate.EmployeeSnapshot, error) {
	_, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	session, err := s.manager.Session(actorID)
	if err != nil {
		return nil, mapTrackingError(err)
	}
	return session.Employees(), nil
}

func (s *TeamService) EmployeeDetail(ctx context.Context, actorID, employeeID string, query dto.EmployeeDetailQueryDto) (*aggregate.Detail, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	var err error
	defer func() { end(err) }()

	session, err := s.manager.Session(actorID)
	if err != nil {
		return nil, mapTrackingError(err)
	}
	loc := session.Location()
	joined, err := query.JoinedAt(loc)
	if err != nil {
		return nil, cErr.BadRequestQuery("invalid joined date")
	}
	month, err := query.MonthStart(session.Now(), loc)
	if err != nil {
		return nil, cErr.BadRequestQuery("invalid month")
	}

	detail, err := session.EmployeeDetail(ctx, employeeID, joined, month)
	if err != nil {
		return nil, mapTrackingError(err)
	}
	return &detail, nil
}

// CachedStats 讀取 Redis 中最近一次發佈的統計（跨程序共享）
func (s *TeamService) CachedStats(ctx context.Context, actorID string) (*dto.CachedStatsResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	var err error
	defer func() { end(err) }()

	session, err := s.manager.Session(actorID)
	if err != nil {
		return nil, mapTrackingError(err)
	}
	orgID := session.OrgID()
	if orgID == "" {
		return nil, cErr.NoOrganization("session is not tracking an organization")
	}
	cached, err := s.cache.Get(ctx, orgID)
	if errors.Is(err, redisRepo.ErrCacheDisabled) {
		return nil, cErr.ServiceUnavailable("stats cache disabled")
	}
	if errors.Is(err, redisRepo.ErrStatsNotFound) {
		return nil, cErr.NotFound("stats not published yet")
	}
	if err != nil {
		return nil, cErr.DatabaseError("failed to read cached stats")
	}
	return &dto.CachedStatsResponseDto{OrgID: cached.OrgID, Stats: cached.Stats, ComputedAt: cached.ComputedAt}, nil
}

func mapTrackingError(err error) error {
	switch {
	case errors.Is(err, tracking.ErrNoSession), errors.Is(err, tracking.ErrSessionClosed):
		return cErr.NoSession("sign in with POST /api/session first")
	case errors.Is(err, tracking.ErrNotTracked):
		return cErr.NotFound("employee not found in organization")
	case errors.Is(err, tracking.ErrDetailNotReady), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return cErr.GatewayTimeout("timed out waiting for employee data")
	default:
		return cErr.InternalServer(err.Error())
	}
}
