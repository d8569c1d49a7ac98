package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"trac/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemorySource 以記憶體保存文件並依序投遞快照，供測試與 replay 使用。
//
// 所有 callback 由單一 dispatcher goroutine 依寫入順序觸發。
type MemorySource struct {
	mu       sync.Mutex
	docs     map[core.MongoCollection]map[string]bson.Raw
	docSubs  map[int64]*memoryDocWatch
	querySub map[int64]*memoryQueryWatch
	nextID   int64
	closed   bool

	queueMu sync.Mutex
	queue   []func()
	pending int
	cond    *sync.Cond
	done    chan struct{}
}

type memoryDocWatch struct {
	ref        DocumentRef
	onSnapshot func(DocumentSnapshot)
	onError    func(error)
	cancelled  atomic.Bool
}

type memoryQueryWatch struct {
	query      Query
	onSnapshot func(QuerySnapshot)
	onError    func(error)
	cancelled  atomic.Bool
	last       []byte
}

func NewMemorySource() *MemorySource {
	s := &MemorySource{
		docs:     map[core.MongoCollection]map[string]bson.Raw{},
		docSubs:  map[int64]*memoryDocWatch{},
		querySub: map[int64]*memoryQueryWatch{},
		done:     make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.queueMu)
	go s.dispatch()
	return s
}

func (s *MemorySource) WatchDocument(_ context.Context, ref DocumentRef, onSnapshot func(DocumentSnapshot), onError func(error)) (Unsubscribe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	s.nextID++
	id := s.nextID
	w := &memoryDocWatch{ref: ref, onSnapshot: onSnapshot, onError: onError}
	s.docSubs[id] = w
	s.enqueueDoc(w, s.documentLocked(ref))

	return s.unsubscriber(func() {
		w.cancelled.Store(true)
		delete(s.docSubs, id)
	}), nil
}

func (s *MemorySource) WatchQuery(_ context.Context, query Query, onSnapshot func(QuerySnapshot), onError func(error)) (Unsubscribe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	s.nextID++
	id := s.nextID
	w := &memoryQueryWatch{query: query, onSnapshot: onSnapshot, onError: onError}
	s.querySub[id] = w
	snap := s.queryLocked(query)
	w.last = fingerprint(snap)
	s.enqueueQuery(w, snap)

	return s.unsubscriber(func() {
		w.cancelled.Store(true)
		delete(s.querySub, id)
	}), nil
}

// Set 寫入（整份覆蓋）一份文件；doc 可為 struct、bson.M 或 bson.Raw
func (s *MemorySource) Set(collection core.MongoCollection, id string, doc any) error {
	raw, err := toRaw(doc)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.docs[collection] == nil {
		s.docs[collection] = map[string]bson.Raw{}
	}
	s.docs[collection][id] = raw
	s.notifyLocked(collection, id)
	return nil
}

// Merge 將 fields 淺層合併進既有文件（不存在則建立）
func (s *MemorySource) Merge(collection core.MongoCollection, id string, fields bson.M) error {
	s.mu.Lock()
	current := bson.M{}
	if raw, ok := s.docs[collection][id]; ok {
		if err := bson.Unmarshal(raw, &current); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()

	for k, v := range fields {
		current[k] = v
	}
	return s.Set(collection, id, current)
}

// Delete 刪除文件；文件本不存在時為 no-op
func (s *MemorySource) Delete(collection core.MongoCollection, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[collection][id]; !ok {
		return
	}
	delete(s.docs[collection], id)
	s.notifyLocked(collection, id)
}

// Fail 對指向 (collection, id) 的文件訂閱，以及以 id 為過濾值的查詢訂閱投遞錯誤
func (s *MemorySource) Fail(collection core.MongoCollection, id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.docSubs {
		if w.ref.Collection == collection && w.ref.ID == id && w.onError != nil {
			w := w
			s.enqueue(func() {
				if !w.cancelled.Load() {
					w.onError(err)
				}
			})
		}
	}
	for _, w := range s.querySub {
		if w.query.Collection != collection || w.onError == nil || !filtersMention(w.query.Filters, id) {
			continue
		}
		w := w
		s.enqueue(func() {
			if !w.cancelled.Load() {
				w.onError(err)
			}
		})
	}
}

// Get 讀取目前的文件內容
func (s *MemorySource) Get(collection core.MongoCollection, id string) (DocumentSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.documentLocked(DocumentRef{Collection: collection, ID: id})
	return snap, snap.Exists
}

// Watchers 回傳仍有效的訂閱數
func (s *MemorySource) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docSubs) + len(s.querySub)
}

// Flush 等待所有已排入的投遞（包含投遞過程中新排入的）完成
func (s *MemorySource) Flush() {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	for s.pending > 0 {
		s.cond.Wait()
	}
}

// FlushTimeout 同 Flush，但最多等待 d
func (s *MemorySource) FlushTimeout(d time.Duration) bool {
	ch := make(chan struct{})
	go func() {
		s.Flush()
		close(ch)
	}()
	select {
	case <-ch:
		return true
	case <-time.After(d):
		return false
	}
}

// Close 停止 dispatcher；已排入但尚未投遞的快照會被丟棄
func (s *MemorySource) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, w := range s.docSubs {
		w.cancelled.Store(true)
	}
	for _, w := range s.querySub {
		w.cancelled.Store(true)
	}
	s.docSubs = map[int64]*memoryDocWatch{}
	s.querySub = map[int64]*memoryQueryWatch{}
	s.mu.Unlock()

	s.queueMu.Lock()
	close(s.done)
	s.cond.Broadcast()
	s.queueMu.Unlock()
}

func (s *MemorySource) unsubscriber(cancel func()) Unsubscribe {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			cancel()
		})
	}
}

func (s *MemorySource) notifyLocked(collection core.MongoCollection, id string) {
	for _, w := range s.docSubs {
		if w.ref.Collection == collection && w.ref.ID == id {
			s.enqueueDoc(w, s.documentLocked(w.ref))
		}
	}
	for _, w := range s.querySub {
		if w.query.Collection != collection {
			continue
		}
		snap := s.queryLocked(w.query)
		fp := fingerprint(snap)
		if bytes.Equal(fp, w.last) {
			continue
		}
		w.last = fp
		s.enqueueQuery(w, snap)
	}
}

func (s *MemorySource) enqueueDoc(w *memoryDocWatch, snap DocumentSnapshot) {
	s.enqueue(func() {
		if !w.cancelled.Load() {
			w.onSnapshot(snap)
		}
	})
}

func (s *MemorySource) enqueueQuery(w *memoryQueryWatch, snap QuerySnapshot) {
	s.enqueue(func() {
		if !w.cancelled.Load() {
			w.onSnapshot(snap)
		}
	})
}

func (s *MemorySource) enqueue(fn func()) {
	s.queueMu.Lock()
	s.queue = append(s.queue, fn)
	s.pending++
	s.cond.Broadcast()
	s.queueMu.Unlock()
}

func (s *MemorySource) dispatch() {
	for {
		s.queueMu.Lock()
		for len(s.queue) == 0 {
			select {
			case <-s.done:
				s.pending = 0
				s.cond.Broadcast()
				s.queueMu.Unlock()
				return
			default:
			}
			s.cond.Wait()
		}
		select {
		case <-s.done:
			s.queue = nil
			s.pending = 0
			s.cond.Broadcast()
			s.queueMu.Unlock()
			return
		default:
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		fn()

		s.queueMu.Lock()
		s.pending--
		s.cond.Broadcast()
		s.queueMu.Unlock()
	}
}

func (s *MemorySource) documentLocked(ref DocumentRef) DocumentSnapshot {
	raw, ok := s.docs[ref.Collection][ref.ID]
	if !ok {
		return DocumentSnapshot{ID: ref.ID}
	}
	return DocumentSnapshot{ID: ref.ID, Exists: true, Data: cloneRaw(raw)}
}

func (s *MemorySource) queryLocked(q Query) QuerySnapshot {
	type row struct {
		id  string
		raw bson.Raw
	}

	var rows []row
	for id, raw := range s.docs[q.Collection] {
		if matches(id, raw, q) {
			rows = append(rows, row{id: id, raw: raw})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if q.OrderBy != "" {
			c := compareValues(fieldValue(rows[i].id, rows[i].raw, q.OrderBy), fieldValue(rows[j].id, rows[j].raw, q.OrderBy))
			if c != 0 {
				if q.Descending {
					return c > 0
				}
				return c < 0
			}
		}
		return rows[i].id < rows[j].id
	})

	if q.Limit > 0 && int64(len(rows)) > q.Limit {
		rows = rows[:q.Limit]
	}

	snap := QuerySnapshot{Docs: make([]DocumentSnapshot, 0, len(rows))}
	for _, r := range rows {
		snap.Docs = append(snap.Docs, DocumentSnapshot{ID: r.id, Exists: true, Data: cloneRaw(r.raw)})
	}
	return snap
}

func matches(id string, raw bson.Raw, q Query) bool {
	for _, f := range q.Filters {
		if !valuesEqual(fieldValue(id, raw, f.Field), f.Value) {
			return false
		}
	}
	if q.Range != nil {
		v, ok := fieldValue(id, raw, q.Range.Field).(string)
		if !ok || !q.Range.Contains(v) {
			return false
		}
	}
	return true
}

func fieldValue(id string, raw bson.Raw, field string) any {
	if field == IDField {
		if val, err := raw.LookupErr(IDField); err == nil {
			return rawValue(val)
		}
		return id
	}
	val, err := raw.LookupErr(field)
	if err != nil {
		return nil
	}
	return rawValue(val)
}

func rawValue(val bson.RawValue) any {
	var out any
	if err := val.Unmarshal(&out); err != nil {
		return nil
	}
	if dt, ok := out.(primitive.DateTime); ok {
		return dt.Time()
	}
	return out
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c := compareValues(a, b); c == 0 {
		if _, ok := asFloat(a); ok {
			return true
		}
		if as, ok := a.(string); ok {
			bs, ok := b.(string)
			return ok && as == bs
		}
		if at, ok := a.(time.Time); ok {
			bt, ok := b.(time.Time)
			return ok && at.Equal(bt)
		}
	}
	return reflect.DeepEqual(a, b)
}

// compareValues 比較排序值：數字、字串、時間；型別不同時以型別名稱排序
func compareValues(a, b any) int {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	an, bn := fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func filtersMention(filters []Filter, id string) bool {
	for _, f := range filters {
		if s, ok := f.Value.(string); ok && s == id {
			return true
		}
	}
	return false
}

func fingerprint(snap QuerySnapshot) []byte {
	var buf bytes.Buffer
	for _, d := range snap.Docs {
		buf.WriteString(d.ID)
		buf.WriteByte(0)
		buf.Write(d.Data)
	}
	return buf.Bytes()
}

func toRaw(doc any) (bson.Raw, error) {
	switch d := doc.(type) {
	case bson.Raw:
		return cloneRaw(d), nil
	case []byte:
		return cloneRaw(d), nil
	}
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return bson.Raw(b), nil
}

func cloneRaw(raw bson.Raw) bson.Raw {
	out := make(bson.Raw, len(raw))
	copy(out, raw)
	return out
}
