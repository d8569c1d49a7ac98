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

type OrganizationRepository struct {
	collection *mongo.Collection
}

func NewOrganizationRepository(mongoClient *client.MongoClient) *OrganizationRepository {
	repository := &OrganizationRepository{
		collection: mongoClient.Collection(core.MongoCollectionOrganizations),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *OrganizationRepository) ensureIndexes(contextValue context.Context) error {
	ctx := contextValue

	_, _ = repository.collection.Indexes().CreateMany(ctx, model.OrganizationIndexes)
	return nil
}

func (repository *OrganizationRepository) GetByID(contextValue context.Context, organizationIdentifier string) (_ *model.Organization, returnedError error) {
	var organization model.Organization
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": organizationIdentifier}).Decode(&organization); returnedError != nil {
		return nil, returnedError
	}
	return &organization, nil
}

func (repository *OrganizationRepository) Upsert(contextValue context.Context, organization *model.Organization) (returnedError error) {
	if organization.CreatedAt == nil {
		nowUTC := time.Now().UTC()
		organization.CreatedAt = &nowUTC
	}
	_, returnedError = repository.collection.ReplaceOne(contextValue, bson.M{"_id": organization.ID}, organization, options.Replace().SetUpsert(true))
	return returnedError
}
