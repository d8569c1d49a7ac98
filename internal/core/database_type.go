package core

// ─── Database Types ────────────────────────────────────────────────────────────

// DatabaseType defines the type of database
type DatabaseType string

const (
	Mongo DatabaseType = "mongo"
	Redis DatabaseType = "redis"
)

// Databases contains all supported database types
var Databases = []DatabaseType{Mongo, Redis}

type MongoDatabaseName string
type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	MongoDBTrac MongoDatabaseName = "trac"
)

// MongoDB collections
//
// 文件式路徑（users/{id}/live/heartbeat 等）攤平成以 userId 關聯的 collection。
const (
	MongoCollectionUsers         MongoCollection = "users"
	MongoCollectionOrganizations MongoCollection = "organizations"
	MongoCollectionHeartbeats    MongoCollection = "heartbeats"
	MongoCollectionWorkShifts    MongoCollection = "work_shifts"
	MongoCollectionTimeEntries   MongoCollection = "time_entries"
	MongoCollectionScreenshots   MongoCollection = "screenshots"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyOrgStats RedisKey = "stats" // 組織統計快取
)

const (
	FluentdSessionEvent FluentdSubTag = "session_event"
	FluentdOrgStats     FluentdSubTag = "org_stats"
	FluentdApiRequest   FluentdSubTag = "api_request"
	FluentdApiResponse  FluentdSubTag = "api_response"
)

// DateLayout 班次 ID 前綴與每日分組使用的日期格式（字典序 == 時間序）
const DateLayout = "2006-01-02"
