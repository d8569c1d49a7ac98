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

type WorkShiftRepository struct {
	collection *mongo.Collection
}

func NewWorkShiftRepository(mongoClient *client.MongoClient) *WorkShiftRepository {
	repository := &WorkShiftRepository{
		collection: mongoClient.Collection(core.MongoCollectionWorkShifts),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *WorkShiftRepository) ensureIndexes(contextValue context.Context) error {
	ctx := contextValue

	_, _ = repository.collection.Indexes().CreateMany(ctx, model.WorkShiftIndexes)
	return nil
}

// Upsert：_id 為 "userId/shiftId"
func (repository *WorkShiftRepository) Upsert(contextValue context.Context, shift *model.WorkShift) (returnedError error) {
	_, returnedError = repository.collection.ReplaceOne(contextValue, bson.M{"_id": shift.DocumentID()}, shift, options.Replace().SetUpsert(true))
	return returnedError
}

// ListByUser：startTime 倒序，limit <= 0 表示不限
func (repository *WorkShiftRepository) ListByUser(contextValue context.Context, userIdentifier string, limit int64) (_ []model.WorkShift, returnedError error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	cursor, findError := repository.collection.Find(contextValue, bson.M{"userId": userIdentifier}, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var shifts []model.WorkShift
	if returnedError = cursor.All(contextValue, &shifts); returnedError != nil {
		return nil, returnedError
	}
	return shifts, nil
}
