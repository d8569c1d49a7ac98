package tracking

import (
	"context"
	"sort"
	"sync"
	"time"

	"trac/config"
	"trac/internal/core"
	"trac/internal/snapshot"
	"trac/internal/telemetry"

	"go.uber.org/zap"
)

// Manager actor id → Session；每個 actor 同時只有一個 session
type Manager struct {
	source    snapshot.Source
	profiles  ProfileStore
	publisher Publisher
	logger    *zap.Logger
	metric    *telemetry.Metric
	trace     *telemetry.Trace
	tracking  config.Tracking
	clock     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// ManagerOption 測試用
type ManagerOption func(*Manager)

func WithClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) { m.clock = clock }
}

func NewManager(
	conf *config.Configuration,
	logger *zap.Logger,
	source snapshot.Source,
	profiles ProfileStore,
	publisher Publisher,
	metric *telemetry.Metric,
	trace *telemetry.Trace,
	opts ...ManagerOption,
) (*Manager, func()) {
	m := &Manager{
		source:    source,
		profiles:  profiles,
		publisher: publisher,
		logger:    logger,
		metric:    metric,
		trace:     trace,
		tracking:  conf.Tracking,
		clock:     time.Now,
		sessions:  map[string]*Session{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if _, err := conf.Tracking.LoadLocation(); err != nil {
		logger.Warn("invalid tracking timezone, day boundaries fall back to UTC",
			zap.String("timezone", conf.Tracking.Timezone), zap.Error(err))
	}
	cleanup := func() {
		logger.Info("closing tracking sessions")
		m.CloseAll()
	}
	return m, cleanup
}

// SignIn 回傳 actor 既有的 session，沒有才建立；第二個回傳值表示是否新建
func (m *Manager) SignIn(ctx context.Context, actor core.Actor) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[actor.ID]; ok {
		return s, false, nil
	}

	s := NewSession(Options{
		Actor:     actor,
		Source:    m.source,
		Profiles:  m.profiles,
		Publisher: m.publisher,
		Logger:    m.logger,
		Metric:    m.metric,
		Trace:     m.trace,
		Tracking:  m.tracking,
		Clock:     m.clock,
	})
	if err := s.Start(ctx); err != nil {
		s.Close()
		return nil, false, err
	}
	m.sessions[actor.ID] = s
	m.metric.SetActiveSessions(len(m.sessions))
	return s, true, nil
}

// SignOut 關閉並移除 actor 的 session
func (m *Manager) SignOut(actorID string) error {
	m.mu.Lock()
	s, ok := m.sessions[actorID]
	if ok {
		delete(m.sessions, actorID)
	}
	m.metric.SetActiveSessions(len(m.sessions))
	m.mu.Unlock()

	if !ok {
		return ErrNoSession
	}
	s.Close()
	return nil
}

func (m *Manager) Session(actorID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[actorID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// RolloverAll 對每個 session 檢查換日；回傳實際換日的數量
func (m *Manager) RolloverAll() int {
	rolled := 0
	for _, s := range m.list() {
		if s.RollDay() {
			rolled++
		}
	}
	return rolled
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.metric.SetActiveSessions(0)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (m *Manager) list() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].actor.ID < out[j].actor.ID })
	return out
}
