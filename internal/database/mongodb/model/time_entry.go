package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TimeEntry 應用程式使用區段
type TimeEntry struct {
	ID          string     `json:"id" bson:"_id" yaml:"id"`
	UserID      string     `json:"userId" bson:"userId" yaml:"userId"`
	StartTime   *time.Time `json:"startTime,omitempty" bson:"startTime,omitempty" yaml:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty" bson:"endTime,omitempty" yaml:"endTime"`
	Duration    float64    `json:"duration" bson:"duration" yaml:"duration"` // 秒
	Application string     `json:"application,omitempty" bson:"application,omitempty" yaml:"application"`
	Title       string     `json:"title,omitempty" bson:"title,omitempty" yaml:"title"`
}

var TimeEntryIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startTime", Value: -1}},
		Options: options.Index().SetName("idx_userId_startTime_desc"),
	},
}
