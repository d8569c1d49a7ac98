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

type TimeEntryRepository struct {
	collection *mongo.Collection
}

func NewTimeEntryRepository(mongoClient *client.MongoClient) *TimeEntryRepository {
	repository := &TimeEntryRepository{
		collection: mongoClient.Collection(core.MongoCollectionTimeEntries),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *TimeEntryRepository) ensureIndexes(contextValue context.Context) error {
	ctx := contextValue

	_, _ = repository.collection.Indexes().CreateMany(ctx, model.TimeEntryIndexes)
	return nil
}

func (repository *TimeEntryRepository) Upsert(contextValue context.Context, entry *model.TimeEntry) (returnedError error) {
	_, returnedError = repository.collection.ReplaceOne(contextValue, bson.M{"_id": entry.ID}, entry, options.Replace().SetUpsert(true))
	return returnedError
}
