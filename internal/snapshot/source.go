// Package snapshot 定義即時文件訂閱（Snapshot Source）的抽象。
//
// 每次變更都投遞「完整」的文件或查詢結果集，而非差異；呼叫端只依賴
// Watch / Unsubscribe 的語意，底層可以是 MongoDB change stream 或記憶體實作。
package snapshot

import (
	"context"
	"errors"

	"trac/internal/core"

	"go.mongodb.org/mongo-driver/bson"
)

// MaxSuffix 前綴區間查詢的上界字元（與 Firestore 慣例相同）
const MaxSuffix = "\uf8ff"

// IDField 以文件 ID 作為欄位時使用的名稱
const IDField = "_id"

var (
	// ErrClosed source 已關閉後仍嘗試訂閱
	ErrClosed = errors.New("snapshot source closed")
)

// Unsubscribe 取消訂閱；可重複呼叫
type Unsubscribe func()

// DocumentRef 指向單一文件
type DocumentRef struct {
	Collection core.MongoCollection
	ID         string
}

// Filter 等值條件
type Filter struct {
	Field string
	Value any
}

// KeyRange 字串欄位上的閉區間 [Start, End]（字典序）
type KeyRange struct {
	Field string
	Start string
	End   string
}

// PrefixRange 回傳選出所有以 prefix 開頭之值的區間
func PrefixRange(field, prefix string) *KeyRange {
	return &KeyRange{Field: field, Start: prefix, End: prefix + MaxSuffix}
}

// Contains 判斷 v 是否落在區間內
func (r *KeyRange) Contains(v string) bool {
	return v >= r.Start && v <= r.End
}

// Query 集合查詢：等值過濾 + 可選區間 + 排序 + 上限
type Query struct {
	Collection core.MongoCollection
	Filters    []Filter
	Range      *KeyRange
	OrderBy    string
	Descending bool
	Limit      int64
}

// DocumentSnapshot 單一文件在某一時間點的完整內容
type DocumentSnapshot struct {
	ID     string
	Exists bool
	Data   bson.Raw
}

// DataTo 將文件內容解碼到 v；文件不存在時 v 保持原狀
func (s DocumentSnapshot) DataTo(v any) error {
	if !s.Exists || len(s.Data) == 0 {
		return nil
	}
	return bson.Unmarshal(s.Data, v)
}

// Fields 以 bson.M 形式回傳文件欄位；不存在時回傳空 map
func (s DocumentSnapshot) Fields() (bson.M, error) {
	fields := bson.M{}
	if !s.Exists || len(s.Data) == 0 {
		return fields, nil
	}
	if err := bson.Unmarshal(s.Data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// QuerySnapshot 查詢目前的完整結果集
type QuerySnapshot struct {
	Docs []DocumentSnapshot
}

// Source 即時訂閱介面。
//
// 實作不得在 Watch* 呼叫內同步觸發 callback；callback 可能來自任意 goroutine。
type Source interface {
	WatchDocument(ctx context.Context, ref DocumentRef, onSnapshot func(DocumentSnapshot), onError func(error)) (Unsubscribe, error)
	WatchQuery(ctx context.Context, query Query, onSnapshot func(QuerySnapshot), onError func(error)) (Unsubscribe, error)
}
