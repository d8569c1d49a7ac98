package tracking

import (
	"context"
	"testing"
	"time"

	"trac/config"
	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// manualSource 由測試手動觸發 callback，取消後仍可觸發以模擬在途中的投遞
type manualSource struct {
	docs    []*manualDocWatch
	queries []*manualQueryWatch
}

type manualDocWatch struct {
	ref        snapshot.DocumentRef
	onSnapshot func(snapshot.DocumentSnapshot)
	cancelled  bool
}

type manualQueryWatch struct {
	query      snapshot.Query
	onSnapshot func(snapshot.QuerySnapshot)
	cancelled  bool
}

func (m *manualSource) WatchDocument(_ context.Context, ref snapshot.DocumentRef, onSnapshot func(snapshot.DocumentSnapshot), _ func(error)) (snapshot.Unsubscribe, error) {
	w := &manualDocWatch{ref: ref, onSnapshot: onSnapshot}
	m.docs = append(m.docs, w)
	return func() { w.cancelled = true }, nil
}

func (m *manualSource) WatchQuery(_ context.Context, query snapshot.Query, onSnapshot func(snapshot.QuerySnapshot), _ func(error)) (snapshot.Unsubscribe, error) {
	w := &manualQueryWatch{query: query, onSnapshot: onSnapshot}
	m.queries = append(m.queries, w)
	return func() { w.cancelled = true }, nil
}

func (m *manualSource) doc(collection core.MongoCollection, id string) *manualDocWatch {
	for i := len(m.docs) - 1; i >= 0; i-- {
		if m.docs[i].ref.Collection == collection && m.docs[i].ref.ID == id {
			return m.docs[i]
		}
	}
	return nil
}

func (m *manualSource) query(collection core.MongoCollection, field string, value any) *manualQueryWatch {
	for i := len(m.queries) - 1; i >= 0; i-- {
		q := m.queries[i].query
		if q.Collection != collection {
			continue
		}
		for _, f := range q.Filters {
			if f.Field == field && f.Value == value {
				return m.queries[i]
			}
		}
	}
	return nil
}

type staticProfile struct{ user model.User }

func (p staticProfile) EnsureProfile(context.Context, core.Actor) (*model.User, error) {
	u := p.user
	return &u, nil
}

func rawDoc(t *testing.T, id string, doc any) snapshot.DocumentSnapshot {
	t.Helper()
	data, err := bson.Marshal(doc)
	require.NoError(t, err)
	return snapshot.DocumentSnapshot{ID: id, Exists: true, Data: data}
}

func TestSession_DiscardsCallbacksFromPreviousOrg(t *testing.T) {
	src := &manualSource{}
	s := NewSession(Options{
		Actor:    owner,
		Source:   src,
		Profiles: staticProfile{user: model.User{ID: "owner", OwnedOrgID: "A"}},
		Logger:   zap.NewNop(),
		Tracking: config.Tracking{},
		Clock:    func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	})
	defer s.Close()
	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, "A", s.OrgID())

	membersA := src.query(core.MongoCollectionUsers, "orgId", "A")
	require.NotNil(t, membersA)
	alice := rawDoc(t, "a1", bson.M{"name": "Alice", "orgId": "A"})
	membersA.onSnapshot(snapshot.QuerySnapshot{Docs: []snapshot.DocumentSnapshot{alice}})
	require.True(t, s.registry.Has("a1"))

	heartbeatA1 := src.doc(core.MongoCollectionHeartbeats, "a1")
	require.NotNil(t, heartbeatA1)

	actor := src.doc(core.MongoCollectionUsers, "owner")
	require.NotNil(t, actor)
	actor.onSnapshot(rawDoc(t, "owner", bson.M{"ownedOrgId": "B"}))
	require.Equal(t, "B", s.OrgID())
	assert.True(t, membersA.cancelled)
	assert.True(t, heartbeatA1.cancelled)
	assert.Empty(t, s.Records())

	// 舊組織的 callback 晚到：不得寫入
	heartbeatA1.onSnapshot(rawDoc(t, "a1", bson.M{"isCurrentlyRunning": true}))
	membersA.onSnapshot(snapshot.QuerySnapshot{Docs: []snapshot.DocumentSnapshot{alice}})
	assert.Empty(t, s.Records())
	assert.Equal(t, 0, s.Stats().ActiveEmployees)

	// 新組織照常運作
	membersB := src.query(core.MongoCollectionUsers, "orgId", "B")
	require.NotNil(t, membersB)
	membersB.onSnapshot(snapshot.QuerySnapshot{Docs: []snapshot.DocumentSnapshot{rawDoc(t, "b1", bson.M{"name": "Bob"})}})
	assert.Equal(t, []string{"b1"}, recordIDs(s))
}

func TestSession_DiscardsCallbacksFromRemovedUser(t *testing.T) {
	src := &manualSource{}
	s := NewSession(Options{
		Actor:    owner,
		Source:   src,
		Profiles: staticProfile{user: model.User{ID: "owner", OrgID: "A"}},
		Logger:   zap.NewNop(),
	})
	defer s.Close()
	require.NoError(t, s.Start(context.Background()))

	members := src.query(core.MongoCollectionUsers, "orgId", "A")
	alice := rawDoc(t, "a1", bson.M{"name": "Alice", "orgId": "A"})
	members.onSnapshot(snapshot.QuerySnapshot{Docs: []snapshot.DocumentSnapshot{alice}})
	oldHeartbeat := src.doc(core.MongoCollectionHeartbeats, "a1")

	// 離開後再加入：舊 token 的 callback 失效，新的訂閱有效
	members.onSnapshot(snapshot.QuerySnapshot{})
	require.False(t, s.registry.Has("a1"))
	members.onSnapshot(snapshot.QuerySnapshot{Docs: []snapshot.DocumentSnapshot{alice}})
	newHeartbeat := src.doc(core.MongoCollectionHeartbeats, "a1")
	require.NotSame(t, oldHeartbeat, newHeartbeat)

	oldHeartbeat.onSnapshot(rawDoc(t, "a1", bson.M{"isCurrentlyRunning": true}))
	assert.Equal(t, 0, s.Stats().ActiveEmployees)

	newHeartbeat.onSnapshot(rawDoc(t, "a1", bson.M{"isCurrentlyRunning": true}))
	assert.Equal(t, 1, s.Stats().ActiveEmployees)
}

func TestSession_DiscardsShiftsFromPreviousDay(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	src := &manualSource{}
	s := NewSession(Options{
		Actor:    owner,
		Source:   src,
		Profiles: staticProfile{user: model.User{ID: "owner", OrgID: "A"}},
		Logger:   zap.NewNop(),
		Clock:    func() time.Time { return now },
	})
	defer s.Close()
	require.NoError(t, s.Start(context.Background()))

	src.query(core.MongoCollectionUsers, "orgId", "A").onSnapshot(snapshot.QuerySnapshot{
		Docs: []snapshot.DocumentSnapshot{rawDoc(t, "a1", bson.M{"orgId": "A"})},
	})
	yesterday := src.query(core.MongoCollectionWorkShifts, "userId", "a1")
	require.Equal(t, "2024-05-01", yesterday.query.Range.Start)

	now = now.Add(2 * time.Minute)
	require.True(t, s.RollDay())
	today := src.query(core.MongoCollectionWorkShifts, "userId", "a1")
	require.Equal(t, "2024-05-02", today.query.Range.Start)
	assert.True(t, yesterday.cancelled)

	late := model.WorkShift{ShiftID: "2024-05-01_s1", UserID: "a1", LiveMetrics: model.LiveMetrics{TotalSeconds: 3600}}
	yesterday.onSnapshot(snapshot.QuerySnapshot{Docs: []snapshot.DocumentSnapshot{rawDoc(t, "a1/2024-05-01_s1", late)}})
	assert.Equal(t, "0.0", s.Stats().TotalHoursToday)
}

func TestSession_EmployeeDetailNotReady(t *testing.T) {
	src := &manualSource{}
	s := NewSession(Options{
		Actor:      owner,
		Source:     src,
		Profiles:   staticProfile{user: model.User{ID: "owner", OwnedOrgID: "A"}},
		Logger:     zap.NewNop(),
		Clock:      func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
		DetailWait: 20 * time.Millisecond,
	})
	defer s.Close()
	require.NoError(t, s.Start(context.Background()))

	members := src.query(core.MongoCollectionUsers, "orgId", "A")
	require.NotNil(t, members)
	members.onSnapshot(snapshot.QuerySnapshot{Docs: []snapshot.DocumentSnapshot{rawDoc(t, "a1", bson.M{"name": "Alice", "orgId": "A"})}})
	require.True(t, s.registry.Has("a1"))

	month := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.EmployeeDetail(context.Background(), "a1", nil, month)
	require.ErrorIs(t, err, ErrDetailNotReady)

	// 訂閱保留：歷史送達後重試成功
	history := src.query(core.MongoCollectionWorkShifts, "userId", "a1")
	require.NotNil(t, history)
	require.Equal(t, s.tracking.HistoryLimitOrDefault(), history.query.Limit)
	history.onSnapshot(snapshot.QuerySnapshot{Docs: []snapshot.DocumentSnapshot{}})

	detail, err := s.EmployeeDetail(context.Background(), "a1", nil, month)
	require.NoError(t, err)
	assert.Equal(t, "a1", detail.ID)
	assert.Equal(t, "Alice", detail.Name)
}
