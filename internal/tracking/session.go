// Package tracking 觀察者 session：依登入者的個人資料決定追蹤的組織，
// 維持組織、成員、心跳與今日班次的即時訂閱，並在每次變更後重算組織統計。
package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"trac/config"
	"trac/internal/aggregate"
	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/personnel"
	"trac/internal/snapshot"
	"trac/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionClosed  = errors.New("session closed")
	ErrNotTracked     = errors.New("employee is not tracked by this session")
	// ErrDetailNotReady 明細訂閱在等待時間內尚未收到班次歷史；訂閱保留，稍後重試即可
	ErrDetailNotReady = errors.New("employee detail not ready")
)

const defaultDetailWait = 3 * time.Second

// ProfileStore 登入時確保個人資料文件存在
type ProfileStore interface {
	EnsureProfile(ctx context.Context, actor core.Actor) (*model.User, error)
}

// Publisher 接收重算後的統計與 session 生命週期事件；實作不得阻塞
type Publisher interface {
	PublishStats(orgID string, stats aggregate.Stats)
	PublishEvent(event SessionEvent)
}

// SessionEvent session 生命週期事件
type SessionEvent struct {
	Type          core.SessionEventType `json:"type"`
	SessionID     string                `json:"sessionId"`
	ActorID       string                `json:"actorId"`
	OrgID         string                `json:"orgId,omitempty"`
	PreviousOrgID string                `json:"previousOrgId,omitempty"`
	Day           string                `json:"day,omitempty"`
	Personnel     int                   `json:"personnel"`
	At            time.Time             `json:"at"`
}

// Options 建立 Session 所需依賴；Publisher / Metric / Trace 可為 nil
type Options struct {
	Actor      core.Actor
	Source     snapshot.Source
	Profiles   ProfileStore
	Publisher  Publisher
	Logger     *zap.Logger
	Metric     *telemetry.Metric
	Trace      *telemetry.Trace
	Tracking   config.Tracking
	Clock      func() time.Time
	DetailWait time.Duration
}

// Session 單一觀察者的追蹤狀態。
//
// 所有訂閱 callback 與狀態變更都在 mu 之下進行；每個 callback 綁定開啟時的
// generation（組織層級）與 token（使用者層級），兩者任一不符即視為過期並丟棄。
type Session struct {
	id         string
	actor      core.Actor
	source     snapshot.Source
	profiles   ProfileStore
	publisher  Publisher
	logger     *zap.Logger
	metric     *telemetry.Metric
	trace      *telemetry.Trace
	tracking   config.Tracking
	clock      func() time.Time
	loc        *time.Location
	detailWait time.Duration

	registry *personnel.Registry
	stats    atomic.Pointer[aggregate.Stats]

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	closed     bool
	generation int64
	tokens     int64
	orgID      string
	org        *model.Organization
	day        string
	actorSub   subscription
	orgSubs    []subscription
	members    map[core.SubscriptionKind]map[string]struct{}
	users      map[string]*userSubscriptions
	employees  map[string]*employeeWatch
}

func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	wait := opts.DetailWait
	if wait <= 0 {
		wait = defaultDetailWait
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id:         id,
		actor:      opts.Actor,
		source:     opts.Source,
		profiles:   opts.Profiles,
		publisher:  opts.Publisher,
		logger:     logger.With(zap.String("sessionId", id), zap.String("actorId", opts.Actor.ID)),
		metric:     opts.Metric,
		trace:      opts.Trace,
		tracking:   opts.Tracking,
		clock:      clock,
		loc:        opts.Tracking.Location(),
		detailWait: wait,
		ctx:        ctx,
		cancel:     cancel,
		members:    map[core.SubscriptionKind]map[string]struct{}{},
		users:      map[string]*userSubscriptions{},
		employees:  map[string]*employeeWatch{},
	}
	s.day = s.today()
	s.registry = personnel.NewRegistry(personnel.WithOnChange(s.recomputeLocked))
	return s
}

func (s *Session) ID() string { return s.id }
func (s *Session) Actor() core.Actor { return s.actor }
func (s *Session) Location() *time.Location { return s.loc }

// Start 確保個人資料存在，接著訂閱登入者的個人資料以解析組織。
// 個人資料建立失敗時不中止：組織先視為空，之後由訂閱補上。
func (s *Session) Start(ctx context.Context) error {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanSessionSignIn))
	var err error
	defer func() { end(err) }()

	var profile *model.User
	if s.profiles != nil {
		profile, err = s.profiles.EnsureProfile(ctx, s.actor)
		if err != nil {
			s.logger.Warn("failed to ensure profile, organization unresolved until profile appears", zap.Error(err))
			err = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		err = ErrSessionClosed
		return err
	}

	if profile != nil {
		s.applyOrgLocked(ResolveOrganization(profile))
	}
	s.actorSub = s.watchDocumentLocked(core.SubscriptionActorProfile,
		snapshot.DocumentRef{Collection: core.MongoCollectionUsers, ID: s.actor.ID},
		func() bool { return true },
		s.applyActorProfileLocked)

	s.trace.ApplyTraceAttributes(span, core.TraceSessionMeta{
		SessionID:     s.id,
		ActorID:       s.actor.ID,
		OrgID:         s.orgID,
		Generation:    s.generation,
		Subscriptions: s.subscriptionCountLocked(),
		Day:           s.day,
	})
	s.publishEventLocked(core.SessionEventSignIn, "")
	s.logger.Info("session started", zap.String("orgId", s.orgID), zap.String("day", s.day))
	return nil
}

// applyActorProfileLocked 個人資料不存在或無法解碼時 fail closed：視為沒有組織
func (s *Session) applyActorProfileLocked(snap snapshot.DocumentSnapshot) {
	if !snap.Exists {
		s.applyOrgLocked("")
		return
	}
	var profile model.User
	if err := snap.DataTo(&profile); err != nil {
		s.logger.Warn("failed to decode actor profile", zap.Error(err))
		s.applyOrgLocked("")
		return
	}
	s.applyOrgLocked(ResolveOrganization(&profile))
}

// applyOrgLocked 組織不變時為 no-op；否則先拆除舊組織的所有訂閱與狀態，再開新組織的訂閱
func (s *Session) applyOrgLocked(orgID string) {
	if orgID == s.orgID {
		return
	}
	previous := s.orgID
	if previous != "" {
		s.teardownLocked()
	}
	if orgID == "" {
		s.publishEventLocked(core.SessionEventTeardown, previous)
		s.logger.Info("organization detached", zap.String("previousOrgId", previous))
		return
	}

	s.orgID = orgID
	s.openOrganizationLocked(orgID)
	if previous != "" {
		s.publishEventLocked(core.SessionEventOrgSwitch, previous)
	}
	s.logger.Info("organization attached", zap.String("orgId", orgID), zap.String("previousOrgId", previous))
}

// teardownLocked 關閉組織層級以下的所有訂閱並清空 registry；
// generation 遞增讓仍在途中的 callback 失效
func (s *Session) teardownLocked() {
	_, span, end := s.trace.WithSpan(context.Background(), string(core.SpanSessionTeardown))
	defer end(nil)

	previous := s.orgID
	s.generation++
	s.trace.ApplyTraceAttributes(span, core.TraceSessionMeta{
		SessionID:     s.id,
		ActorID:       s.actor.ID,
		PreviousOrgID: previous,
		Generation:    s.generation,
		Subscriptions: s.subscriptionCountLocked(),
		Personnel:     s.registry.Len(),
	})

	closeAll(s.orgSubs)
	s.orgSubs = nil
	for userID, subs := range s.users {
		subs.close()
		delete(s.users, userID)
	}
	for id, w := range s.employees {
		w.close()
		delete(s.employees, id)
	}
	s.members = map[core.SubscriptionKind]map[string]struct{}{}
	s.org = nil
	// orgID 先清空，Reset 觸發的重算才不會把空統計發佈到舊組織
	s.orgID = ""
	s.registry.Reset()
	s.metric.ForgetOrg(previous)
}

// recomputeLocked registry 每次變更後呼叫；呼叫端持有 mu
func (s *Session) recomputeLocked() {
	start := time.Now()
	records := s.registry.Snapshot()
	stats := aggregate.ComputeStats(records, s.actor.ID)
	s.stats.Store(&stats)
	s.metric.ObserveRecompute(time.Since(start))

	if s.orgID == "" {
		return
	}
	s.metric.SetTrackedPersonnel(s.orgID, len(records))
	if s.publisher != nil {
		s.publisher.PublishStats(s.orgID, stats)
	}
}

// RollDay 日期改變時以新日期重開每個使用者的今日班次訂閱；回傳是否換日
func (s *Session) RollDay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	day := s.today()
	if day == s.day {
		return false
	}

	_, span, end := s.trace.WithSpan(context.Background(), string(core.SpanSessionRollover))
	defer end(nil)

	previous := s.day
	s.day = day
	for userID, subs := range s.users {
		subs.shifts.close()
		s.registry.ReplaceShifts(userID, nil)
		s.openShiftsLocked(userID, subs)
	}
	// 明細的截圖訂閱以日期為單位，下次查詢時重開
	for id, w := range s.employees {
		w.close()
		delete(s.employees, id)
	}

	s.trace.ApplyTraceAttributes(span, core.TraceSessionMeta{
		SessionID:     s.id,
		ActorID:       s.actor.ID,
		OrgID:         s.orgID,
		Generation:    s.generation,
		Subscriptions: s.subscriptionCountLocked(),
		Personnel:     s.registry.Len(),
		Day:           day,
	})
	s.publishEventLocked(core.SessionEventRollover, "")
	s.logger.Info("day rolled over", zap.String("from", previous), zap.String("to", day), zap.Int("users", len(s.users)))
	return true
}

// Close 取消所有訂閱；可重複呼叫
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.publishEventLocked(core.SessionEventSignOut, "")
	s.actorSub.close()
	if s.orgID != "" {
		s.teardownLocked()
	}
	s.closed = true
	s.cancel()
	s.logger.Info("session closed")
}

// Stats 最近一次重算的組織統計；尚未重算時為空統計
func (s *Session) Stats() aggregate.Stats {
	if stats := s.stats.Load(); stats != nil {
		return *stats
	}
	return aggregate.EmptyStats()
}

// OrgID 目前追蹤的組織；空字串表示沒有
func (s *Session) OrgID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orgID
}

// Organization 組織文件的最新內容；尚未收到或不存在時為 nil
func (s *Session) Organization() *model.Organization {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.org == nil {
		return nil
	}
	org := *s.org
	return &org
}

// Day 目前使用的「今天」日期鍵
func (s *Session) Day() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// Records registry 的深拷貝，依 ID 排序
func (s *Session) Records() []personnel.Record {
	return s.registry.Snapshot()
}

// Workforce 員工列表、今日產能曲線與應用流向圖
func (s *Session) Workforce() aggregate.Workforce {
	s.mu.Lock()
	orgName := ""
	if s.org != nil {
		orgName = s.org.Name
	}
	s.mu.Unlock()

	return aggregate.ComputeWorkforce(aggregate.WorkforceInput{
		Records: s.registry.Snapshot(),
		ActorID: s.actor.ID,
		OrgName: orgName,
		Now:     s.clock(),
		Loc:     s.loc,
	})
}

// Employees 排除登入者與停用帳號後的員工列表
func (s *Session) Employees() []aggregate.EmployeeSnapshot {
	return s.Workforce().Employees
}

// EmployeeDetail 組合單一員工的明細。joined 為 nil 時使用個人資料的 attachedAt。
// 只允許查詢目前組織內的成員或登入者本人。
func (s *Session) EmployeeDetail(ctx context.Context, employeeID string, joined *time.Time, month time.Time) (aggregate.Detail, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return aggregate.Detail{}, ErrSessionClosed
	}
	if employeeID != s.actor.ID && !s.registry.Has(employeeID) {
		s.mu.Unlock()
		return aggregate.Detail{}, fmt.Errorf("%s: %w", employeeID, ErrNotTracked)
	}
	w := s.employeeWatchLocked(employeeID)
	ready := w.ready
	s.mu.Unlock()

	timer := time.NewTimer(s.detailWait)
	defer timer.Stop()
	select {
	case <-ready:
	case <-ctx.Done():
		return aggregate.Detail{}, ctx.Err()
	case <-timer.C:
		s.logger.Warn("employee detail not ready", zap.String("employeeId", employeeID), zap.Duration("waited", s.detailWait))
		return aggregate.Detail{}, fmt.Errorf("%s: %w", employeeID, ErrDetailNotReady)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return aggregate.Detail{}, ErrSessionClosed
	}
	if s.employees[employeeID] != w {
		return aggregate.Detail{}, fmt.Errorf("%s: %w", employeeID, ErrNotTracked)
	}

	var live *personnel.Record
	if rec, err := s.registry.Get(employeeID); err == nil {
		live = &rec
	}
	profile := w.profile
	if profile == nil && live != nil {
		p := live.Profile
		profile = &p
	}
	if joined == nil && profile != nil {
		joined = profile.AttachedAt
	}

	return aggregate.ComputeEmployeeDetail(aggregate.DetailInput{
		EmployeeID:  employeeID,
		Live:        live,
		Profile:     profile,
		History:     w.history,
		TimeEntries: w.entries,
		Screenshots: w.screenshotList(),
		Joined:      joined,
		Month:       month,
		Now:         s.clock(),
		Loc:         s.loc,
	}), nil
}

func (s *Session) today() string {
	return aggregate.DayKey(s.clock(), s.loc)
}

func (s *Session) subscriptionCountLocked() int {
	n := len(s.orgSubs) + 2*len(s.users)
	for _, w := range s.employees {
		n += len(w.subs)
	}
	return n
}

func (s *Session) publishEventLocked(kind core.SessionEventType, previousOrgID string) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishEvent(SessionEvent{
		Type:          kind,
		SessionID:     s.id,
		ActorID:       s.actor.ID,
		OrgID:         s.orgID,
		PreviousOrgID: previousOrgID,
		Day:           s.day,
		Personnel:     s.registry.Len(),
		At:            s.clock(),
	})
}

// Now session 時鐘的目前時間
func (s *Session) Now() time.Time {
	return s.clock()
}
