package tracking

import (
	"sort"
	"sync"
	"time"

	"trac/internal/aggregate"
	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/snapshot"

	"go.uber.org/zap"
)

const screenshotsPerDay = 60

// employeeWatch 單一員工明細所需的訂閱：個人資料、班次歷史、最近時間紀錄、每日截圖
type employeeWatch struct {
	id          string
	subs        []subscription
	profile     *model.User
	history     []model.WorkShift
	entries     []model.TimeEntry
	screenshots map[string][]model.Screenshot

	ready     chan struct{}
	readyOnce sync.Once
}

func (w *employeeWatch) markReady() {
	w.readyOnce.Do(func() { close(w.ready) })
}

func (w *employeeWatch) close() {
	closeAll(w.subs)
	w.subs = nil
	w.markReady()
}

// screenshotList 所有日期的截圖，新到舊
func (w *employeeWatch) screenshotList() []model.Screenshot {
	var out []model.Screenshot
	for _, shots := range w.screenshots {
		out = append(out, shots...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// employeeWatchLocked 同一員工重複查詢時沿用既有訂閱
func (s *Session) employeeWatchLocked(employeeID string) *employeeWatch {
	if w, ok := s.employees[employeeID]; ok {
		return w
	}
	w := &employeeWatch{
		id:          employeeID,
		screenshots: map[string][]model.Screenshot{},
		ready:       make(chan struct{}),
	}
	s.employees[employeeID] = w

	gen := s.generation
	valid := func() bool { return gen == s.generation && s.employees[employeeID] == w }
	field := zap.String("employeeId", employeeID)

	w.subs = append(w.subs,
		s.watchDocumentLocked(core.SubscriptionProfile,
			snapshot.DocumentRef{Collection: core.MongoCollectionUsers, ID: employeeID},
			valid, func(snap snapshot.DocumentSnapshot) { w.applyProfile(s.logger, snap) }, field),
		s.watchQueryLocked(core.SubscriptionShiftHistory,
			snapshot.Query{
				Collection: core.MongoCollectionWorkShifts,
				Filters:    []snapshot.Filter{{Field: "userId", Value: employeeID}},
				OrderBy:    "startTime",
				Descending: true,
				Limit:      s.tracking.HistoryLimitOrDefault(),
			},
			valid, func(snap snapshot.QuerySnapshot) {
				w.history = decodeShifts(s.logger, employeeID, snap)
				w.markReady()
			}, field),
		s.watchQueryLocked(core.SubscriptionTimeEntries,
			snapshot.Query{
				Collection: core.MongoCollectionTimeEntries,
				Filters:    []snapshot.Filter{{Field: "userId", Value: employeeID}},
				OrderBy:    "startTime",
				Descending: true,
				Limit:      s.tracking.TimeEntryLimitOrDefault(),
			},
			valid, func(snap snapshot.QuerySnapshot) { w.applyEntries(s.logger, snap) }, field),
	)

	for _, day := range evidenceDays(s.clock(), s.loc, s.tracking.EvidenceDaysOrDefault()) {
		w.subs = append(w.subs, s.watchQueryLocked(core.SubscriptionScreenshotsDay,
			snapshot.Query{
				Collection: core.MongoCollectionScreenshots,
				Filters: []snapshot.Filter{
					{Field: "userId", Value: employeeID},
					{Field: "day", Value: day},
				},
				OrderBy:    "timestamp",
				Descending: true,
				Limit:      screenshotsPerDay,
			},
			valid, func(snap snapshot.QuerySnapshot) { w.applyScreenshots(s.logger, day, snap) },
			field, zap.String("day", day)))
	}
	return w
}

func (w *employeeWatch) applyProfile(logger *zap.Logger, snap snapshot.DocumentSnapshot) {
	if !snap.Exists {
		w.profile = nil
		return
	}
	var profile model.User
	if err := snap.DataTo(&profile); err != nil {
		logger.Warn("failed to decode employee profile", zap.String("employeeId", w.id), zap.Error(err))
		return
	}
	profile.ID = snap.ID
	w.profile = &profile
}

func (w *employeeWatch) applyEntries(logger *zap.Logger, snap snapshot.QuerySnapshot) {
	entries := make([]model.TimeEntry, 0, len(snap.Docs))
	for _, doc := range snap.Docs {
		var entry model.TimeEntry
		if err := doc.DataTo(&entry); err != nil {
			logger.Warn("skipping undecodable time entry", zap.String("docId", doc.ID), zap.Error(err))
			continue
		}
		entry.ID = doc.ID
		entries = append(entries, entry)
	}
	w.entries = entries
}

func (w *employeeWatch) applyScreenshots(logger *zap.Logger, day string, snap snapshot.QuerySnapshot) {
	shots := make([]model.Screenshot, 0, len(snap.Docs))
	for _, doc := range snap.Docs {
		var shot model.Screenshot
		if err := doc.DataTo(&shot); err != nil {
			logger.Warn("skipping undecodable screenshot", zap.String("docId", doc.ID), zap.Error(err))
			continue
		}
		shot.ID = doc.ID
		shots = append(shots, shot)
	}
	w.screenshots[day] = shots
}

// evidenceDays 今天往前共 n 天的日期鍵，新到舊
func evidenceDays(now time.Time, loc *time.Location, n int) []string {
	days := make([]string, 0, n)
	local := now.In(loc)
	for i := 0; i < n; i++ {
		days = append(days, aggregate.DayKey(local.AddDate(0, 0, -i), loc))
	}
	return days
}
