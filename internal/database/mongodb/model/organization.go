package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Organization 組織（organizations/{id}）
type Organization struct {
	ID                 string     `json:"id" bson:"_id" yaml:"id"`
	Name               string     `json:"name" bson:"name" yaml:"name"`
	OwnerID            string     `json:"ownerId" bson:"ownerId" yaml:"ownerId"`
	InviteCode         string     `json:"inviteCode,omitempty" bson:"inviteCode,omitempty" yaml:"inviteCode"`
	SubscriptionStatus string     `json:"subscriptionStatus,omitempty" bson:"subscriptionStatus,omitempty" yaml:"subscriptionStatus"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry,omitempty" bson:"subscriptionExpiry,omitempty" yaml:"subscriptionExpiry"`
	CreatedAt          *time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty" yaml:"createdAt"`
}

var OrganizationIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "ownerId", Value: 1}},
		Options: options.Index().SetName("idx_ownerId"),
	},
	{
		Keys:    bson.D{{Key: "inviteCode", Value: 1}},
		Options: options.Index().SetName("idx_inviteCode"),
	},
}
