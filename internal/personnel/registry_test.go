package personnel

import (
	"sync/atomic"
	"testing"
	"time"

	"trac/internal/core"
	"trac/internal/database/mongodb/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMergeDocument_CreatesDefaults(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.MergeDocument("u1", bson.M{"name": "Ada", "role": "Employee"}))

	rec, err := r.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.ID)
	assert.Equal(t, "Ada", rec.Profile.Name)
	assert.Equal(t, core.RoleEmployee, rec.Profile.Role)
	assert.Nil(t, rec.Heartbeat)
	assert.NotNil(t, rec.WorkShifts)
	assert.Empty(t, rec.WorkShifts)
}

func TestMergeDocument_Idempotent(t *testing.T) {
	patch := bson.M{"name": "Ada", "email": "ada@example.com", "totalSeconds": int32(7200)}

	once := NewRegistry()
	require.NoError(t, once.MergeDocument("u1", patch))

	twice := NewRegistry()
	require.NoError(t, twice.MergeDocument("u1", patch))
	require.NoError(t, twice.MergeDocument("u1", patch))

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestMergeDocument_ShallowMergeKeepsOtherFieldsAndLiveState(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.MergeDocument("u1", bson.M{"name": "Ada", "orgId": "org-1"}))
	r.SetHeartbeat("u1", &model.Heartbeat{UserID: "u1", IsCurrentlyRunning: true})
	r.ReplaceShifts("u1", []model.WorkShift{{ShiftID: "2024-05-01_a", UserID: "u1"}})

	require.NoError(t, r.MergeDocument("u1", bson.M{"name": "Ada L."}))

	rec, err := r.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", rec.Profile.Name)
	assert.Equal(t, "org-1", rec.Profile.OrgID)
	assert.True(t, rec.IsOnline())
	assert.Len(t, rec.WorkShifts, 1)
}

func TestMergeDocument_NestedLocationReplacedWholesale(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.MergeDocument("u1", bson.M{"lastLoginLocation": bson.M{"city": "Taipei", "country": "TW"}}))
	require.NoError(t, r.MergeDocument("u1", bson.M{"lastLoginLocation": bson.M{"city": "Osaka"}}))

	rec, err := r.Get("u1")
	require.NoError(t, err)
	require.NotNil(t, rec.Profile.LastLoginLocation)
	assert.Equal(t, "Osaka", rec.Profile.LastLoginLocation.City)
	assert.Empty(t, rec.Profile.LastLoginLocation.Country)
}

func TestMergeDocument_RejectsUndecodableFields(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.MergeDocument("u1", bson.M{"name": "Ada"}))

	err := r.MergeDocument("u1", bson.M{"name": bson.M{"first": "Ada"}})
	require.Error(t, err)

	rec, _ := r.Get("u1")
	assert.Equal(t, "Ada", rec.Profile.Name)
}

func TestSnapshot_ReturnsDeepCopies(t *testing.T) {
	r := NewRegistry()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r.ReplaceShifts("u1", []model.WorkShift{{
		ShiftID:       "2024-05-01_a",
		StartTime:     &start,
		LiveBreakdown: map[string]float64{"Chrome": 60},
	}})

	snap := r.Snapshot()
	snap[0].WorkShifts[0].LiveBreakdown["Chrome"] = 9999
	*snap[0].WorkShifts[0].StartTime = start.Add(time.Hour)

	rec, err := r.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 60.0, rec.WorkShifts[0].LiveBreakdown["Chrome"])
	assert.Equal(t, start, *rec.WorkShifts[0].StartTime)
}

func TestRemoveUserAndReset(t *testing.T) {
	var changes atomic.Int32
	r := NewRegistry(WithOnChange(func() { changes.Add(1) }))

	require.NoError(t, r.MergeDocument("u1", bson.M{"name": "Ada"}))
	require.NoError(t, r.MergeDocument("u2", bson.M{"name": "Grace"}))
	assert.Equal(t, int32(2), changes.Load())

	assert.True(t, r.RemoveUser("u1"))
	assert.False(t, r.RemoveUser("u1"))
	assert.Equal(t, int32(3), changes.Load())
	assert.Equal(t, []string{"u2"}, r.IDs())

	_, err := r.Get("u1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, int32(4), changes.Load())
}

func TestSetHeartbeat_NilClears(t *testing.T) {
	r := NewRegistry()
	r.SetHeartbeat("u1", &model.Heartbeat{IsCurrentlyRunning: true})
	r.SetHeartbeat("u1", nil)

	rec, err := r.Get("u1")
	require.NoError(t, err)
	assert.Nil(t, rec.Heartbeat)
	assert.False(t, rec.IsOnline())
	assert.True(t, r.Has("u1"))
}
