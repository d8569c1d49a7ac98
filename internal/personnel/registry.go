// Package personnel 保存單一觀察者 session 目前追蹤的人員狀態。
package personnel

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"trac/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrUserNotFound = errors.New("personnel record not found")

// Record 單一使用者的合併視圖：個人資料、即時心跳、今日班次
type Record struct {
	ID         string            `json:"id"`
	Profile    model.User        `json:"profile"`
	Heartbeat  *model.Heartbeat  `json:"heartbeat"`
	WorkShifts []model.WorkShift `json:"workShifts"`
}

// IsOnline 心跳存在且正在執行
func (r Record) IsOnline() bool {
	return r.Heartbeat != nil && r.Heartbeat.IsCurrentlyRunning
}

func (r Record) clone() Record {
	out := Record{ID: r.ID, Profile: r.Profile}
	if r.Profile.Active != nil {
		v := *r.Profile.Active
		out.Profile.Active = &v
	}
	if r.Profile.AttachedAt != nil {
		v := *r.Profile.AttachedAt
		out.Profile.AttachedAt = &v
	}
	if r.Profile.LastLoginLocation != nil {
		v := *r.Profile.LastLoginLocation
		out.Profile.LastLoginLocation = &v
	}
	if r.Heartbeat != nil {
		hb := *r.Heartbeat
		out.Heartbeat = &hb
	}
	out.WorkShifts = make([]model.WorkShift, 0, len(r.WorkShifts))
	for _, s := range r.WorkShifts {
		out.WorkShifts = append(out.WorkShifts, s.Clone())
	}
	return out
}

type entry struct {
	fields bson.M
	record Record
}

// Option 設定 Registry
type Option func(*Registry)

// WithOnChange 每次變更後（釋放鎖之後）同步呼叫 fn
func WithOnChange(fn func()) Option {
	return func(r *Registry) {
		r.onChange = fn
	}
}

// Registry userId → Record；讀取回傳深拷貝
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	onChange func()
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{entries: map[string]*entry{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MergeDocument 將個人資料欄位淺層合併進既有紀錄，不存在時以空心跳、空班次建立
func (r *Registry) MergeDocument(userID string, patch bson.M) error {
	r.mu.Lock()
	e, ok := r.entries[userID]
	merged := bson.M{}
	if ok {
		for k, v := range e.fields {
			merged[k] = v
		}
	}
	for k, v := range patch {
		merged[k] = v
	}
	delete(merged, "_id")

	profile, err := decodeProfile(userID, merged)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("merge profile %s: %w", userID, err)
	}
	if !ok {
		e = &entry{record: Record{ID: userID, WorkShifts: []model.WorkShift{}}}
		r.entries[userID] = e
	}
	e.fields = merged
	e.record.Profile = profile
	r.mu.Unlock()

	r.changed()
	return nil
}

// ReplaceShifts 以查詢結果整批取代今日班次
func (r *Registry) ReplaceShifts(userID string, shifts []model.WorkShift) {
	copied := make([]model.WorkShift, 0, len(shifts))
	for _, s := range shifts {
		copied = append(copied, s.Clone())
	}

	r.mu.Lock()
	e := r.ensureLocked(userID)
	e.record.WorkShifts = copied
	r.mu.Unlock()

	r.changed()
}

// SetHeartbeat hb 為 nil 代表心跳文件不存在
func (r *Registry) SetHeartbeat(userID string, hb *model.Heartbeat) {
	var copied *model.Heartbeat
	if hb != nil {
		v := *hb
		copied = &v
	}

	r.mu.Lock()
	e := r.ensureLocked(userID)
	e.record.Heartbeat = copied
	r.mu.Unlock()

	r.changed()
}

// RemoveUser 移除紀錄；不存在時不觸發重算
func (r *Registry) RemoveUser(userID string) bool {
	r.mu.Lock()
	_, ok := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()

	if ok {
		r.changed()
	}
	return ok
}

// Reset 清空所有紀錄（組織切換、登出）
func (r *Registry) Reset() {
	r.mu.Lock()
	r.entries = map[string]*entry{}
	r.mu.Unlock()

	r.changed()
}

func (r *Registry) Get(userID string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[userID]
	if !ok {
		return Record{}, fmt.Errorf("%s: %w", userID, ErrUserNotFound)
	}
	return e.record.clone(), nil
}

func (r *Registry) Has(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[userID]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs 依字典序
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Snapshot 回傳所有紀錄的一致性深拷貝，依 ID 排序
func (r *Registry) Snapshot() []Record {
	r.mu.RLock()
	out := make([]Record, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.record.clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) ensureLocked(userID string) *entry {
	e, ok := r.entries[userID]
	if !ok {
		e = &entry{
			fields: bson.M{},
			record: Record{ID: userID, Profile: model.User{ID: userID}, WorkShifts: []model.WorkShift{}},
		}
		r.entries[userID] = e
	}
	return e
}

func (r *Registry) changed() {
	if r.onChange != nil {
		r.onChange()
	}
}

func decodeProfile(userID string, fields bson.M) (model.User, error) {
	var profile model.User
	raw, err := bson.Marshal(fields)
	if err != nil {
		return profile, err
	}
	if err := bson.Unmarshal(raw, &profile); err != nil {
		return profile, err
	}
	profile.ID = userID
	return profile, nil
}
