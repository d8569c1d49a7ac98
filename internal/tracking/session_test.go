package tracking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trac/config"
	"trac/internal/aggregate"
	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var owner = core.Actor{ID: "owner", Email: "owner@example.com", Name: "Olivia"}

type memoryProfiles struct {
	src *snapshot.MemorySource
	err error
}

func (p memoryProfiles) EnsureProfile(_ context.Context, actor core.Actor) (*model.User, error) {
	if p.err != nil {
		return nil, p.err
	}
	if snap, ok := p.src.Get(core.MongoCollectionUsers, actor.ID); ok {
		var u model.User
		if err := snap.DataTo(&u); err != nil {
			return nil, err
		}
		return &u, nil
	}
	u := model.User{ID: actor.ID, Email: actor.Email, Name: actor.Name, Role: core.RoleOwner}
	return &u, p.src.Set(core.MongoCollectionUsers, actor.ID, u)
}

type recordingPublisher struct {
	mu     sync.Mutex
	stats  map[string]aggregate.Stats
	events []SessionEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{stats: map[string]aggregate.Stats{}}
}

func (p *recordingPublisher) PublishStats(orgID string, stats aggregate.Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats[orgID] = stats
}

func (p *recordingPublisher) PublishEvent(event SessionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) eventTypes() []core.SessionEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []core.SessionEventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testClock struct{ now atomic.Int64 }

func newTestClock(t time.Time) *testClock {
	c := &testClock{}
	c.set(t)
	return c
}

func (c *testClock) set(t time.Time) { c.now.Store(t.UnixNano()) }

func (c *testClock) Now() time.Time { return time.Unix(0, c.now.Load()).UTC() }

func tp(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func todayShift(userID, id string, total float64, apps map[string]float64) model.WorkShift {
	return model.WorkShift{
		ShiftID:       id,
		UserID:        userID,
		StartTime:     tp(id[:10] + "T09:00:00Z"),
		Status:        core.ShiftStatusActive,
		LiveMetrics:   model.LiveMetrics{TotalSeconds: total, ActiveSeconds: total},
		LiveBreakdown: apps,
	}
}

func putShift(t *testing.T, src *snapshot.MemorySource, s model.WorkShift) {
	t.Helper()
	require.NoError(t, src.Set(core.MongoCollectionWorkShifts, s.DocumentID(), s))
}

// seedTwoOrgs A: owner + Alice（在線）；B: Bob（在線）
func seedTwoOrgs(t *testing.T, src *snapshot.MemorySource) {
	t.Helper()
	require.NoError(t, src.Set(core.MongoCollectionUsers, "owner", model.User{Name: "Olivia", OwnedOrgID: "A", Role: core.RoleOwner}))
	require.NoError(t, src.Set(core.MongoCollectionUsers, "a1", model.User{Name: "Alice", OrgID: "A", Role: core.RoleEmployee, TotalSeconds: 36000}))
	require.NoError(t, src.Set(core.MongoCollectionUsers, "b1", model.User{Name: "Bob", OrgID: "B", Role: core.RoleEmployee}))
	require.NoError(t, src.Set(core.MongoCollectionOrganizations, "A", model.Organization{Name: "Acme", OwnerID: "owner"}))
	require.NoError(t, src.Set(core.MongoCollectionOrganizations, "B", model.Organization{Name: "Bolt"}))
	require.NoError(t, src.Set(core.MongoCollectionHeartbeats, "a1", model.Heartbeat{IsCurrentlyRunning: true, LastActiveWindow: "Slack"}))
	require.NoError(t, src.Set(core.MongoCollectionHeartbeats, "b1", model.Heartbeat{IsCurrentlyRunning: true}))
	putShift(t, src, todayShift("a1", "2024-05-01_s1", 3600, map[string]float64{"google_chrome": 3600}))
	putShift(t, src, todayShift("a1", "2024-04-30_s1", 1800, nil))
	putShift(t, src, todayShift("b1", "2024-05-01_s1", 7200, map[string]float64{"vs_code": 7200}))
}

type fixture struct {
	src       *snapshot.MemorySource
	publisher *recordingPublisher
	clock     *testClock
	session   *Session
}

func newFixture(t *testing.T, profiles ProfileStore) *fixture {
	t.Helper()
	src := snapshot.NewMemorySource()
	t.Cleanup(src.Close)
	f := &fixture{
		src:       src,
		publisher: newRecordingPublisher(),
		clock:     newTestClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
	}
	if profiles == nil {
		profiles = memoryProfiles{src: src}
	}
	f.session = NewSession(Options{
		Actor:      owner,
		Source:     src,
		Profiles:   profiles,
		Publisher:  f.publisher,
		Logger:     zap.NewNop(),
		Tracking:   config.Tracking{Timezone: "UTC"},
		Clock:      f.clock.Now,
		DetailWait: time.Second,
	})
	t.Cleanup(f.session.Close)
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.session.Start(context.Background()))
	f.src.Flush()
}

func recordIDs(s *Session) []string {
	var ids []string
	for _, r := range s.Records() {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSession_TracksOrganization(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)

	assert.Equal(t, "A", f.session.OrgID())
	require.NotNil(t, f.session.Organization())
	assert.Equal(t, "Acme", f.session.Organization().Name)
	assert.Equal(t, []string{"a1", "owner"}, recordIDs(f.session))

	stats := f.session.Stats()
	assert.Equal(t, "1.0", stats.TotalHoursToday)
	assert.Equal(t, "10.0", stats.TotalOrgHours)
	assert.Equal(t, 1, stats.ActiveEmployees)
	assert.Equal(t, 1, stats.TotalStaff)
	require.Len(t, stats.TopApps, 1)
	assert.Equal(t, "Google Chrome", stats.TopApps[0].Name)
	assert.Equal(t, 100, stats.TopApps[0].Percentage)

	f.publisher.mu.Lock()
	published := f.publisher.stats["A"]
	f.publisher.mu.Unlock()
	assert.Equal(t, stats, published)

	// 只有今天的班次
	alice, err := f.session.registry.Get("a1")
	require.NoError(t, err)
	require.Len(t, alice.WorkShifts, 1)
	assert.Equal(t, "2024-05-01_s1", alice.WorkShifts[0].ShiftID)

	// actor profile + org + members + owners + 2 × (heartbeat, shifts)
	assert.Equal(t, 8, f.src.Watchers())
}

func TestSession_OrgSwitchDropsPreviousOrg(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)
	require.Equal(t, "A", f.session.OrgID())

	require.NoError(t, f.src.Merge(core.MongoCollectionUsers, "owner", bson.M{"ownedOrgId": "B"}))
	f.src.Flush()

	assert.Equal(t, "B", f.session.OrgID())
	assert.Equal(t, "Bolt", f.session.Organization().Name)
	assert.Equal(t, []string{"b1", "owner"}, recordIDs(f.session))
	assert.Equal(t, "2.0", f.session.Stats().TotalHoursToday)
	assert.Equal(t, 8, f.src.Watchers())
	assert.Contains(t, f.publisher.eventTypes(), core.SessionEventOrgSwitch)

	// 舊組織的更新不再影響狀態
	require.NoError(t, f.src.Set(core.MongoCollectionHeartbeats, "a1", model.Heartbeat{IsCurrentlyRunning: false}))
	putShift(t, f.src, todayShift("a1", "2024-05-01_s2", 999, nil))
	f.src.Flush()
	assert.False(t, f.session.registry.Has("a1"))
	assert.Equal(t, "2.0", f.session.Stats().TotalHoursToday)
}

func TestSession_MemberLeavingIsRemoved(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)
	require.True(t, f.session.registry.Has("a1"))
	base := f.src.Watchers()

	_, err := f.session.EmployeeDetail(context.Background(), "a1", nil, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	f.src.Flush()
	require.Greater(t, f.src.Watchers(), base)

	require.NoError(t, f.src.Merge(core.MongoCollectionUsers, "a1", bson.M{"orgId": "C"}))
	f.src.Flush()

	assert.False(t, f.session.registry.Has("a1"))
	assert.Equal(t, []string{"owner"}, recordIDs(f.session))
	assert.Equal(t, 6, f.src.Watchers())
	f.session.mu.Lock()
	assert.Empty(t, f.session.employees)
	f.session.mu.Unlock()

	_, err = f.session.EmployeeDetail(context.Background(), "a1", nil, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotTracked)
	assert.Equal(t, "0.0", f.session.Stats().TotalHoursToday)
}

func TestSession_MemberJoining(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)

	require.NoError(t, f.src.Merge(core.MongoCollectionUsers, "b1", bson.M{"orgId": "A"}))
	f.src.Flush()

	assert.Equal(t, []string{"a1", "b1", "owner"}, recordIDs(f.session))
	assert.Equal(t, 2, f.session.Stats().ActiveEmployees)
	assert.Equal(t, "3.0", f.session.Stats().TotalHoursToday)
}

func TestSession_ErrorKeepsLastKnownState(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)

	f.src.Fail(core.MongoCollectionHeartbeats, "a1", errors.New("stream reset"))
	f.src.Fail(core.MongoCollectionWorkShifts, "a1", errors.New("stream reset"))
	f.src.Flush()

	alice, err := f.session.registry.Get("a1")
	require.NoError(t, err)
	require.NotNil(t, alice.Heartbeat)
	assert.True(t, alice.Heartbeat.IsCurrentlyRunning)
	assert.Len(t, alice.WorkShifts, 1)
	assert.Equal(t, 1, f.session.Stats().ActiveEmployees)

	// 訂閱仍然有效
	require.NoError(t, f.src.Set(core.MongoCollectionHeartbeats, "a1", model.Heartbeat{IsCurrentlyRunning: false}))
	f.src.Flush()
	assert.Equal(t, 0, f.session.Stats().ActiveEmployees)
}

func TestSession_HeartbeatDeletedGoesOffline(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)

	f.src.Delete(core.MongoCollectionHeartbeats, "a1")
	f.src.Flush()

	alice, err := f.session.registry.Get("a1")
	require.NoError(t, err)
	assert.Nil(t, alice.Heartbeat)
	assert.False(t, alice.IsOnline())
}

func TestSession_RollDay(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	putShift(t, f.src, todayShift("a1", "2024-05-02_s1", 1800, nil))
	f.start(t)
	watchers := f.src.Watchers()

	assert.False(t, f.session.RollDay())

	f.clock.set(time.Date(2024, 5, 2, 0, 5, 0, 0, time.UTC))
	assert.True(t, f.session.RollDay())
	f.src.Flush()

	assert.Equal(t, "2024-05-02", f.session.Day())
	alice, err := f.session.registry.Get("a1")
	require.NoError(t, err)
	require.Len(t, alice.WorkShifts, 1)
	assert.Equal(t, "2024-05-02_s1", alice.WorkShifts[0].ShiftID)

	assert.Equal(t, []string{"a1", "owner"}, recordIDs(f.session))
	assert.Equal(t, "0.5", f.session.Stats().TotalHoursToday)
	assert.Equal(t, watchers, f.src.Watchers())
	assert.False(t, f.session.RollDay())
	assert.Contains(t, f.publisher.eventTypes(), core.SessionEventRollover)
}

func TestSession_FailsClosedWithoutProfile(t *testing.T) {
	f := newFixture(t, memoryProfiles{err: errors.New("mongo down")})
	seedTwoOrgs(t, f.src)
	f.src.Delete(core.MongoCollectionUsers, "owner")
	f.start(t)

	assert.Equal(t, "", f.session.OrgID())
	assert.Empty(t, f.session.Records())
	assert.Equal(t, aggregate.EmptyStats(), f.session.Stats())
	assert.Equal(t, 1, f.src.Watchers())

	// 個人資料之後出現時接上組織
	require.NoError(t, f.src.Set(core.MongoCollectionUsers, "owner", model.User{Name: "Olivia", OrgID: "B"}))
	f.src.Flush()
	assert.Equal(t, "B", f.session.OrgID())
	assert.Equal(t, []string{"b1", "owner"}, recordIDs(f.session))
}

func TestSession_UndecodableProfileDetaches(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)
	require.Equal(t, "A", f.session.OrgID())

	require.NoError(t, f.src.Set(core.MongoCollectionUsers, "owner", bson.M{"ownedOrgId": 42}))
	f.src.Flush()

	assert.Equal(t, "", f.session.OrgID())
	assert.Empty(t, f.session.Records())
	assert.Equal(t, 1, f.src.Watchers())
	assert.Contains(t, f.publisher.eventTypes(), core.SessionEventTeardown)
}

func TestSession_LazyProfileCreation(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)

	snap, ok := f.src.Get(core.MongoCollectionUsers, "owner")
	require.True(t, ok)
	var u model.User
	require.NoError(t, snap.DataTo(&u))
	assert.Equal(t, core.RoleOwner, u.Role)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.Equal(t, "", f.session.OrgID())
}

func TestSession_CloseReleasesEverything(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)
	require.Greater(t, f.src.Watchers(), 0)

	f.session.Close()
	f.session.Close()
	assert.Equal(t, 0, f.src.Watchers())
	assert.Equal(t, core.SessionEventSignOut, f.publisher.eventTypes()[len(f.publisher.eventTypes())-1])

	_, err := f.session.EmployeeDetail(context.Background(), "a1", nil, time.Now())
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, f.session.Start(context.Background()), ErrSessionClosed)
}

func TestSession_EmployeeDetail(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	require.NoError(t, f.src.Merge(core.MongoCollectionUsers, "a1", bson.M{"attachedAt": *tp("2024-04-30T08:00:00Z")}))
	require.NoError(t, f.src.Set(core.MongoCollectionTimeEntries, "e1", model.TimeEntry{
		UserID: "a1", StartTime: tp("2024-05-01T09:00:00Z"), EndTime: tp("2024-05-01T09:30:00Z"), Application: "Slack",
	}))
	require.NoError(t, f.src.Set(core.MongoCollectionScreenshots, "p1", model.Screenshot{UserID: "a1", Day: "2024-05-01", Timestamp: *tp("2024-05-01T09:10:00Z")}))
	require.NoError(t, f.src.Set(core.MongoCollectionScreenshots, "p2", model.Screenshot{UserID: "a1", Day: "2024-05-01", Timestamp: *tp("2024-05-01T09:20:00Z")}))
	require.NoError(t, f.src.Set(core.MongoCollectionScreenshots, "p3", model.Screenshot{UserID: "b1", Day: "2024-05-01", Timestamp: *tp("2024-05-01T09:20:00Z")}))
	f.start(t)

	month := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.session.EmployeeDetail(context.Background(), "a1", nil, month)
	require.NoError(t, err)
	f.src.Flush()

	detail, err := f.session.EmployeeDetail(context.Background(), "a1", nil, month)
	require.NoError(t, err)
	assert.Equal(t, "Alice", detail.Name)
	assert.True(t, detail.IsOnline)
	assert.Equal(t, "Slack", detail.LastActiveWindow)
	assert.Equal(t, 2, detail.Screenshots)
	assert.Equal(t, 2, detail.Yield.LogCount)
	require.Len(t, detail.WorkHistory, 1)
	require.Len(t, detail.WorkHistory[0].Images, 2)
	assert.Equal(t, "p2", detail.WorkHistory[0].Images[0].ID)
	require.Len(t, detail.Attendance, 31)
	assert.Equal(t, core.AttendanceTodayPending, detail.Attendance[0].Status)
	assert.Equal(t, core.AttendanceFuture, detail.Attendance[1].Status)

	// history 包含 04-30 的班次；today 只算 05-01
	assert.Equal(t, "1.0", detail.TodayTotalHours)
	assert.Equal(t, "1.50", detail.Yield.TotalHours)
}

func TestSession_EmployeeDetailRejectsOutsiders(t *testing.T) {
	f := newFixture(t, nil)
	seedTwoOrgs(t, f.src)
	f.start(t)

	_, err := f.session.EmployeeDetail(context.Background(), "b1", nil, time.Now())
	assert.ErrorIs(t, err, ErrNotTracked)

	_, err = f.session.EmployeeDetail(context.Background(), "owner", nil, time.Now())
	assert.NoError(t, err)
}
