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

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(mongoClient *client.MongoClient) *UserRepository {
	repository := &UserRepository{
		collection: mongoClient.Collection(core.MongoCollectionUsers),
	}
	// 啟動時建立常用索引（冪等、存在即跳過）
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *UserRepository) ensureIndexes(contextValue context.Context) error {
	ctx := contextValue

	_, _ = repository.collection.Indexes().CreateMany(ctx, model.UserIndexes)
	return nil
}

// EnsureProfile：不存在才建立（Owner、未完成導覽），存在則原樣回傳
func (repository *UserRepository) EnsureProfile(
	contextValue context.Context,
	actor core.Actor,
) (_ *model.User, returnedError error) {

	nowUTC := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"email":               actor.Email,
		"name":                actor.Name,
		"role":                core.RoleOwner,
		"onboardingCompleted": false,
		"createdAt":           nowUTC,
	}}
	findOptions := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user model.User
	if returnedError = repository.collection.FindOneAndUpdate(contextValue, bson.M{"_id": actor.ID}, update, findOptions).Decode(&user); returnedError != nil {
		return nil, returnedError
	}
	return &user, nil
}

// GetByID：單文件讀取
func (repository *UserRepository) GetByID(
	contextValue context.Context,
	userIdentifier string,
) (_ *model.User, returnedError error) {

	var user model.User
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": userIdentifier}).Decode(&user); returnedError != nil {
		return nil, returnedError
	}
	return &user, nil
}

// Upsert：整份覆蓋（匯入 fixture 使用）
func (repository *UserRepository) Upsert(
	contextValue context.Context,
	user *model.User,
) (returnedError error) {

	nowUTC := time.Now().UTC()
	if user.CreatedAt == nil {
		user.CreatedAt = &nowUTC
	}
	user.UpdatedAt = &nowUTC
	_, returnedError = repository.collection.ReplaceOne(contextValue, bson.M{"_id": user.ID}, user, options.Replace().SetUpsert(true))
	return returnedError
}

// ListByOrganization：orgId 或 ownedOrgId 為 organizationIdentifier 的使用者
func (repository *UserRepository) ListByOrganization(
	contextValue context.Context,
	organizationIdentifier string,
) (_ []*model.User, returnedError error) {

	filter := bson.M{"$or": bson.A{
		bson.M{"orgId": organizationIdentifier},
		bson.M{"ownedOrgId": organizationIdentifier},
	}}
	cursor, findError := repository.collection.Find(contextValue, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var users []*model.User
	if returnedError = cursor.All(contextValue, &users); returnedError != nil {
		return nil, returnedError
	}
	return users, nil
}
