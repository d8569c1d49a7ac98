package tracking

import (
	"sync"

	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/snapshot"

	"go.uber.org/zap"
)

// subscription 一個可取消的訂閱；close 可重複呼叫
type subscription struct {
	kind  core.SubscriptionKind
	close func()
}

func closeAll(subs []subscription) {
	for _, sub := range subs {
		sub.close()
	}
}

// userSubscriptions 單一被追蹤使用者的心跳與今日班次訂閱
type userSubscriptions struct {
	token       int64
	shiftsToken int64
	heartbeat   subscription
	shifts      subscription
}

func (u *userSubscriptions) close() {
	u.heartbeat.close()
	u.shifts.close()
}

// watchDocumentLocked callback 一律在 s.mu 下執行，valid 回傳 false 時丟棄
func (s *Session) watchDocumentLocked(kind core.SubscriptionKind, ref snapshot.DocumentRef, valid func() bool, apply func(snapshot.DocumentSnapshot), fields ...zap.Field) subscription {
	onSnapshot := func(snap snapshot.DocumentSnapshot) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.acceptLocked(kind, valid, fields) {
			return
		}
		s.metric.SnapshotDelivered(kind)
		apply(snap)
	}
	unsubscribe, err := s.source.WatchDocument(s.ctx, ref, onSnapshot, s.errorHandler(kind, valid, fields))
	return s.track(kind, unsubscribe, err, fields)
}

func (s *Session) watchQueryLocked(kind core.SubscriptionKind, query snapshot.Query, valid func() bool, apply func(snapshot.QuerySnapshot), fields ...zap.Field) subscription {
	onSnapshot := func(snap snapshot.QuerySnapshot) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.acceptLocked(kind, valid, fields) {
			return
		}
		s.metric.SnapshotDelivered(kind)
		apply(snap)
	}
	unsubscribe, err := s.source.WatchQuery(s.ctx, query, onSnapshot, s.errorHandler(kind, valid, fields))
	return s.track(kind, unsubscribe, err, fields)
}

func (s *Session) acceptLocked(kind core.SubscriptionKind, valid func() bool, fields []zap.Field) bool {
	if s.closed || !valid() {
		s.metric.StaleCallback(kind)
		s.logger.Debug("discarding stale snapshot", append(fields, zap.String("kind", string(kind)))...)
		return false
	}
	return true
}

// errorHandler 記錄並計數；保留該訂閱最後一次的狀態
func (s *Session) errorHandler(kind core.SubscriptionKind, valid func() bool, fields []zap.Field) func(error) {
	return func(err error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || !valid() {
			s.metric.StaleCallback(kind)
			return
		}
		s.metric.SnapshotFailed(kind)
		s.logger.Warn("snapshot delivery failed, keeping last known state",
			append(fields, zap.String("kind", string(kind)), zap.Error(err))...)
	}
}

func (s *Session) track(kind core.SubscriptionKind, unsubscribe snapshot.Unsubscribe, err error, fields []zap.Field) subscription {
	if err != nil {
		s.metric.SnapshotFailed(kind)
		s.logger.Error("failed to open subscription",
			append(fields, zap.String("kind", string(kind)), zap.Error(err))...)
		return subscription{kind: kind, close: func() {}}
	}
	s.metric.SubscriptionOpened(kind)
	var once sync.Once
	return subscription{kind: kind, close: func() {
		once.Do(func() {
			unsubscribe()
			s.metric.SubscriptionClosed(kind)
		})
	}}
}

// openOrganizationLocked 組織文件與兩個成員查詢
func (s *Session) openOrganizationLocked(orgID string) {
	gen := s.generation
	valid := func() bool { return gen == s.generation }
	field := zap.String("orgId", orgID)

	s.orgSubs = append(s.orgSubs,
		s.watchDocumentLocked(core.SubscriptionOrganization,
			snapshot.DocumentRef{Collection: core.MongoCollectionOrganizations, ID: orgID},
			valid, s.applyOrganizationLocked, field),
		s.watchQueryLocked(core.SubscriptionMembers,
			snapshot.Query{Collection: core.MongoCollectionUsers, Filters: []snapshot.Filter{{Field: "orgId", Value: orgID}}},
			valid, func(snap snapshot.QuerySnapshot) { s.applyMembershipLocked(core.SubscriptionMembers, snap) }, field),
		s.watchQueryLocked(core.SubscriptionOwners,
			snapshot.Query{Collection: core.MongoCollectionUsers, Filters: []snapshot.Filter{{Field: "ownedOrgId", Value: orgID}}},
			valid, func(snap snapshot.QuerySnapshot) { s.applyMembershipLocked(core.SubscriptionOwners, snap) }, field),
	)
}

func (s *Session) applyOrganizationLocked(snap snapshot.DocumentSnapshot) {
	if !snap.Exists {
		s.org = nil
		return
	}
	var org model.Organization
	if err := snap.DataTo(&org); err != nil {
		s.logger.Warn("failed to decode organization", zap.String("orgId", s.orgID), zap.Error(err))
		return
	}
	org.ID = snap.ID
	s.org = &org
}

// applyMembershipLocked 合併每份個人資料、為新成員開訂閱，再移除兩個查詢都不再回傳的使用者
func (s *Session) applyMembershipLocked(kind core.SubscriptionKind, snap snapshot.QuerySnapshot) {
	seen := make(map[string]struct{}, len(snap.Docs))
	for _, doc := range snap.Docs {
		if doc.ID == "" {
			continue
		}
		seen[doc.ID] = struct{}{}

		fields, err := doc.Fields()
		if err == nil {
			err = s.registry.MergeDocument(doc.ID, fields)
		}
		if err != nil {
			s.logger.Warn("failed to merge profile", zap.String("userId", doc.ID), zap.Error(err))
		}
		s.openUserLocked(doc.ID)
	}
	s.members[kind] = seen
	s.reconcileLocked()
}

func (s *Session) isMemberLocked(userID string) bool {
	for _, ids := range s.members {
		if _, ok := ids[userID]; ok {
			return true
		}
	}
	return false
}

func (s *Session) reconcileLocked() {
	for userID := range s.users {
		if !s.isMemberLocked(userID) {
			s.closeUserLocked(userID)
		}
	}
	for userID, w := range s.employees {
		if userID != s.actor.ID && !s.isMemberLocked(userID) {
			w.close()
			delete(s.employees, userID)
		}
	}
	for _, userID := range s.registry.IDs() {
		if !s.isMemberLocked(userID) {
			s.registry.RemoveUser(userID)
			s.logger.Debug("user left organization", zap.String("userId", userID), zap.String("orgId", s.orgID))
		}
	}
}

// openUserLocked 已在表中的使用者為 no-op
func (s *Session) openUserLocked(userID string) {
	if _, ok := s.users[userID]; ok {
		return
	}
	gen := s.generation
	subs := &userSubscriptions{token: s.nextTokenLocked()}
	s.users[userID] = subs
	token := subs.token

	subs.heartbeat = s.watchDocumentLocked(core.SubscriptionHeartbeat,
		snapshot.DocumentRef{Collection: core.MongoCollectionHeartbeats, ID: userID},
		func() bool { return gen == s.generation && s.userTokenLocked(userID) == token },
		func(snap snapshot.DocumentSnapshot) { s.applyHeartbeatLocked(userID, snap) },
		zap.String("userId", userID))
	s.openShiftsLocked(userID, subs)
}

// openShiftsLocked 以今日日期前綴的區間查詢班次；換日時重新呼叫
func (s *Session) openShiftsLocked(userID string, subs *userSubscriptions) {
	gen := s.generation
	subs.shiftsToken = s.nextTokenLocked()
	token := subs.shiftsToken

	subs.shifts = s.watchQueryLocked(core.SubscriptionTodayShifts,
		TodayShiftsQuery(userID, s.day),
		func() bool {
			current, ok := s.users[userID]
			return gen == s.generation && ok && current.shiftsToken == token
		},
		func(snap snapshot.QuerySnapshot) { s.applyShiftsLocked(userID, snap) },
		zap.String("userId", userID), zap.String("day", s.day))
}

func (s *Session) closeUserLocked(userID string) {
	if subs, ok := s.users[userID]; ok {
		subs.close()
		delete(s.users, userID)
	}
}

func (s *Session) userTokenLocked(userID string) int64 {
	if subs, ok := s.users[userID]; ok {
		return subs.token
	}
	return 0
}

func (s *Session) nextTokenLocked() int64 {
	s.tokens++
	return s.tokens
}

func (s *Session) applyHeartbeatLocked(userID string, snap snapshot.DocumentSnapshot) {
	if !snap.Exists {
		s.registry.SetHeartbeat(userID, nil)
		return
	}
	var hb model.Heartbeat
	if err := snap.DataTo(&hb); err != nil {
		s.logger.Warn("failed to decode heartbeat", zap.String("userId", userID), zap.Error(err))
		return
	}
	hb.UserID = userID
	s.registry.SetHeartbeat(userID, &hb)
}

func (s *Session) applyShiftsLocked(userID string, snap snapshot.QuerySnapshot) {
	s.registry.ReplaceShifts(userID, decodeShifts(s.logger, userID, snap))
}

func decodeShifts(logger *zap.Logger, userID string, snap snapshot.QuerySnapshot) []model.WorkShift {
	shifts := make([]model.WorkShift, 0, len(snap.Docs))
	for _, doc := range snap.Docs {
		var shift model.WorkShift
		if err := doc.DataTo(&shift); err != nil {
			logger.Warn("skipping undecodable shift", zap.String("userId", userID), zap.String("docId", doc.ID), zap.Error(err))
			continue
		}
		if shift.ShiftID == "" {
			shift.ShiftID = doc.ID
		}
		shifts = append(shifts, shift)
	}
	return shifts
}

// TodayShiftsQuery userId 的班次中 shiftId 以 day 開頭者
func TodayShiftsQuery(userID, day string) snapshot.Query {
	return snapshot.Query{
		Collection: core.MongoCollectionWorkShifts,
		Filters:    []snapshot.Filter{{Field: "userId", Value: userID}},
		Range:      snapshot.PrefixRange("shiftId", day),
		OrderBy:    "shiftId",
	}
}
