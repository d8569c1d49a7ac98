package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trac/config"
	"trac/internal/core"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// MongoClient 連接 MongoDB
type MongoClient struct {
	client   *mongo.Client
	database string
	logger   *zap.Logger
}

func NewMongoClient(logger *zap.Logger, config *config.Configuration) (*MongoClient, func(), error) {
	mongoClient := &MongoClient{logger: logger, database: string(core.MongoDBTrac)}
	if config.MongoDB.Database != "" {
		mongoClient.database = config.MongoDB.Database
	}
	client, err := mongoClient.connectDB(config)
	if err != nil {
		logger.Error("failed to connect to MongoDB", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to MongoDB", zap.String("database", mongoClient.database))
	mongoClient.client = client

	cleanup := func() {
		logger.Info("closing the MongoDB resources")
		if err := mongoClient.Close(); err != nil {
			logger.Error("failed to close MongoDB client", zap.Error(err))
		}
	}

	return mongoClient, cleanup, nil
}

// connectDB 連線後立即 ping primary；change stream 需要 replica set，連不到就直接失敗
func (client *MongoClient) connectDB(config *config.Configuration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(buildMongoURI(config.MongoDB.URI, config.MongoDB.Options)).
		SetAppName(config.App.Name).
		SetServerSelectionTimeout(connectTimeout)
	conn, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := conn.Ping(ctx, readpref.Primary()); err != nil {
		_ = conn.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return conn, nil
}

func buildMongoURI(baseURI, optionStr string) string {
	if optionStr == "" {
		return baseURI
	}
	if strings.Contains(baseURI, "?") {
		return baseURI + "&" + optionStr
	}
	return baseURI + "?" + optionStr
}

// Ping 健康檢查使用
func (m *MongoClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}

// Close 關閉 MongoDB 連線
func (m *MongoClient) Close() error {
	return m.client.Disconnect(context.Background())
}

// Client 回傳 MongoDB 連線
func (m *MongoClient) Client() *mongo.Client {
	return m.client
}

// Database 回傳設定的資料庫（預設 trac）
func (m *MongoClient) Database() *mongo.Database {
	return m.client.Database(m.database)
}

// Collection 回傳指定 collection
func (m *MongoClient) Collection(name core.MongoCollection) *mongo.Collection {
	return m.Database().Collection(string(name))
}
