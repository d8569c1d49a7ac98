package repository

import (
	"context"

	"trac/internal/core"
	client "trac/internal/database/client"
	"trac/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ScreenshotRepository struct {
	collection *mongo.Collection
}

func NewScreenshotRepository(mongoClient *client.MongoClient) *ScreenshotRepository {
	repository := &ScreenshotRepository{
		collection: mongoClient.Collection(core.MongoCollectionScreenshots),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *ScreenshotRepository) ensureIndexes(contextValue context.Context) error {
	ctx := contextValue

	_, _ = repository.collection.Indexes().CreateMany(ctx, model.ScreenshotIndexes)
	return nil
}

// Upsert：Day 未指定時以 Timestamp 的 UTC 日期補上
func (repository *ScreenshotRepository) Upsert(contextValue context.Context, screenshot *model.Screenshot) (returnedError error) {
	if screenshot.Day == "" {
		screenshot.Day = screenshot.Timestamp.UTC().Format(core.DateLayout)
	}
	_, returnedError = repository.collection.ReplaceOne(contextValue, bson.M{"_id": screenshot.ID}, screenshot, options.Replace().SetUpsert(true))
	return returnedError
}
