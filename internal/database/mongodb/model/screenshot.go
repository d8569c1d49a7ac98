package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Screenshot 截圖證據（users/{id}/screenshots/{day}/images）
type Screenshot struct {
	ID        string    `json:"id" bson:"_id" yaml:"id"`
	UserID    string    `json:"userId" bson:"userId" yaml:"userId"`
	Day       string    `json:"day" bson:"day" yaml:"day"` // yyyy-MM-dd
	Timestamp time.Time `json:"timestamp" bson:"timestamp" yaml:"timestamp"`
	URL       string    `json:"url" bson:"url" yaml:"url"`
}

var ScreenshotIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "day", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("idx_userId_day_timestamp_desc"),
	},
}
