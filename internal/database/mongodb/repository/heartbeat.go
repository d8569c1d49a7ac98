package repository

import (
	"context"
	"time"

	"trac/internal/core"
	client "trac/internal/database/client"
	"trac/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HeartbeatRepository struct {
	collection *mongo.Collection
}

func NewHeartbeatRepository(mongoClient *client.MongoClient) *HeartbeatRepository {
	return &HeartbeatRepository{
		collection: mongoClient.Collection(core.MongoCollectionHeartbeats),
	}
}

func (repository *HeartbeatRepository) GetByUserID(contextValue context.Context, userIdentifier string) (_ *model.Heartbeat, returnedError error) {
	var heartbeat model.Heartbeat
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": userIdentifier}).Decode(&heartbeat); returnedError != nil {
		return nil, returnedError
	}
	return &heartbeat, nil
}

// Upsert：_id 即 userId
func (repository *HeartbeatRepository) Upsert(contextValue context.Context, heartbeat *model.Heartbeat) (returnedError error) {
	if heartbeat.UpdatedAt == nil {
		nowUTC := time.Now().UTC()
		heartbeat.UpdatedAt = &nowUTC
	}
	_, returnedError = repository.collection.ReplaceOne(contextValue, bson.M{"_id": heartbeat.UserID}, heartbeat, options.Replace().SetUpsert(true))
	return returnedError
}
