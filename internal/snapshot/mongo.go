package snapshot

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"trac/internal/core"
	"trac/internal/database/client"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	minRetryDelay = 500 * time.Millisecond
	maxRetryDelay = 30 * time.Second
)

// MongoSource 以 change stream 觸發重新讀取，投遞完整快照。
//
// 需要 replica set（change stream 限制）。每個訂閱一個 goroutine：先開 stream，
// 再做初次讀取，之後每個相關事件重讀一次，結果沒變就不投遞。
type MongoSource struct {
	client *client.MongoClient
	logger *zap.Logger

	mu      sync.Mutex
	closed  bool
	nextID  int64
	cancels map[int64]context.CancelFunc
	wg      sync.WaitGroup
}

func NewMongoSource(logger *zap.Logger, mongoClient *client.MongoClient) (*MongoSource, func()) {
	source := &MongoSource{
		client:  mongoClient,
		logger:  logger,
		cancels: map[int64]context.CancelFunc{},
	}
	cleanup := func() {
		logger.Info("closing snapshot watchers")
		source.Close()
	}
	return source, cleanup
}

func (s *MongoSource) WatchDocument(ctx context.Context, ref DocumentRef, onSnapshot func(DocumentSnapshot), onError func(error)) (Unsubscribe, error) {
	collection := s.client.Collection(ref.Collection)
	match := bson.D{{Key: "documentKey._id", Value: ref.ID}}

	load := func(ctx context.Context) ([]byte, func(), error) {
		raw, err := collection.FindOne(ctx, bson.M{"_id": ref.ID}).Raw()
		if errors.Is(err, mongo.ErrNoDocuments) {
			snap := DocumentSnapshot{ID: ref.ID}
			return nil, func() { onSnapshot(snap) }, nil
		}
		if err != nil {
			return nil, nil, err
		}
		snap := DocumentSnapshot{ID: ref.ID, Exists: true, Data: cloneRaw(raw)}
		return snap.Data, func() { onSnapshot(snap) }, nil
	}

	return s.start(ctx, ref.Collection, match, options.ChangeStream(), load, onError)
}

func (s *MongoSource) WatchQuery(ctx context.Context, query Query, onSnapshot func(QuerySnapshot), onError func(error)) (Unsubscribe, error) {
	collection := s.client.Collection(query.Collection)
	match := QueryChangeMatch(query)
	streamOptions := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)
	filter := QueryFilter(query)
	findOptions := QueryOptions(query)

	load := func(ctx context.Context) ([]byte, func(), error) {
		cursor, err := collection.Find(ctx, filter, findOptions)
		if err != nil {
			return nil, nil, err
		}
		defer cursor.Close(ctx)

		snap := QuerySnapshot{Docs: []DocumentSnapshot{}}
		for cursor.Next(ctx) {
			raw := cloneRaw(cursor.Current)
			snap.Docs = append(snap.Docs, DocumentSnapshot{ID: rawID(raw), Exists: true, Data: raw})
		}
		if err := cursor.Err(); err != nil {
			return nil, nil, err
		}
		return fingerprint(snap), func() { onSnapshot(snap) }, nil
	}

	return s.start(ctx, query.Collection, match, streamOptions, load, onError)
}

// Close 取消所有訂閱並等待 goroutine 結束
func (s *MongoSource) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, cancel := range s.cancels {
		cancel()
		delete(s.cancels, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

type loader func(ctx context.Context) (fingerprint []byte, deliver func(), err error)

func (s *MongoSource) start(parent context.Context, name core.MongoCollection, match bson.D, streamOptions *options.ChangeStreamOptions, load loader, onError func(error)) (Unsubscribe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	ctx, cancel := context.WithCancel(parent)
	s.nextID++
	id := s.nextID
	s.cancels[id] = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, name, match, streamOptions, load, onError)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			s.mu.Lock()
			delete(s.cancels, id)
			s.mu.Unlock()
		})
	}, nil
}

func (s *MongoSource) run(ctx context.Context, name core.MongoCollection, match bson.D, streamOptions *options.ChangeStreamOptions, load loader, onError func(error)) {
	collection := s.client.Collection(name)
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}

	var (
		last      []byte
		delivered bool
		delay     = minRetryDelay
	)
	refresh := func() error {
		fp, deliver, err := load(ctx)
		if err != nil {
			return err
		}
		if delivered && bytes.Equal(fp, last) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		last, delivered = fp, true
		deliver()
		return nil
	}
	fail := func(err error) bool {
		if ctx.Err() != nil {
			return false
		}
		s.logger.Warn("snapshot watch failed",
			zap.String("collection", string(name)),
			zap.Duration("retryIn", delay),
			zap.Error(err))
		if onError != nil {
			onError(err)
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		return true
	}

	for ctx.Err() == nil {
		stream, err := collection.Watch(ctx, pipeline, streamOptions)
		if err != nil {
			if !fail(err) {
				return
			}
			continue
		}

		// stream 建立後才做初次讀取，避免漏掉兩者之間的變更
		if err := refresh(); err != nil {
			_ = stream.Close(context.Background())
			if !fail(err) {
				return
			}
			continue
		}
		delay = minRetryDelay

		var refreshErr error
		for stream.Next(ctx) {
			if refreshErr = refresh(); refreshErr != nil {
				break
			}
		}
		err = stream.Err()
		if refreshErr != nil {
			err = refreshErr
		}
		_ = stream.Close(context.Background())
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = errors.New("change stream closed")
		}
		if !fail(err) {
			return
		}
	}
}

// QueryChangeMatch 只喚醒可能影響查詢結果的事件：
//   - 寫入後的文件（update 以 updateLookup 取得）符合等值條件
//   - update 動到了條件欄位（文件可能因此離開結果集）
//   - delete 的前映像符合條件，或集合沒有開啟前映像
//
// 沒有等值條件時退回所有寫入事件。
func QueryChangeMatch(q Query) bson.D {
	writes := bson.A{"insert", "update", "replace", "delete"}
	if len(q.Filters) == 0 {
		return bson.D{{Key: "operationType", Value: bson.D{{Key: "$in", Value: writes}}}}
	}

	after := bson.D{{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{"insert", "update", "replace"}}}}}
	before := bson.D{{Key: "operationType", Value: "delete"}}
	touched := bson.A{}
	for _, f := range q.Filters {
		after = append(after, bson.E{Key: "fullDocument." + f.Field, Value: f.Value})
		before = append(before, bson.E{Key: "fullDocumentBeforeChange." + f.Field, Value: f.Value})
		touched = append(touched,
			bson.D{{Key: "updateDescription.updatedFields." + f.Field, Value: bson.D{{Key: "$exists", Value: true}}}},
			bson.D{{Key: "updateDescription.removedFields", Value: f.Field}},
		)
	}
	return bson.D{{Key: "$or", Value: bson.A{
		after,
		bson.D{{Key: "operationType", Value: "update"}, {Key: "$or", Value: touched}},
		before,
		bson.D{{Key: "operationType", Value: "delete"}, {Key: "fullDocumentBeforeChange", Value: nil}},
	}}}
}

// QueryFilter Query → Mongo filter
func QueryFilter(q Query) bson.D {
	filter := bson.D{}
	for _, f := range q.Filters {
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}
	if q.Range != nil {
		filter = append(filter, bson.E{Key: q.Range.Field, Value: bson.D{
			{Key: "$gte", Value: q.Range.Start},
			{Key: "$lte", Value: q.Range.End},
		}})
	}
	return filter
}

// QueryOptions 排序（同值以 _id 決勝）與上限
func QueryOptions(q Query) *options.FindOptions {
	opts := options.Find()
	sort := bson.D{}
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		sort = append(sort, bson.E{Key: q.OrderBy, Value: dir})
	}
	if q.OrderBy != IDField {
		sort = append(sort, bson.E{Key: IDField, Value: 1})
	}
	opts.SetSort(sort)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

func rawID(raw bson.Raw) string {
	val, err := raw.LookupErr(IDField)
	if err != nil {
		return ""
	}
	if s, ok := val.StringValueOK(); ok {
		return s
	}
	if oid, ok := val.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return val.String()
}
