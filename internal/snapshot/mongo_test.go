package snapshot

import (
	"testing"

	"trac/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func branches(t *testing.T, match bson.D) bson.A {
	t.Helper()
	require.Len(t, match, 1)
	require.Equal(t, "$or", match[0].Key)
	or, ok := match[0].Value.(bson.A)
	require.True(t, ok)
	return or
}

func TestQueryChangeMatch_ScopedToFilters(t *testing.T) {
	q := Query{
		Collection: core.MongoCollectionWorkShifts,
		Filters:    []Filter{{Field: "userId", Value: "a1"}},
		Range:      PrefixRange("shiftId", "2024-05-01"),
	}

	or := branches(t, QueryChangeMatch(q))
	require.Len(t, or, 4)

	after := or[0].(bson.D).Map()
	assert.Equal(t, "a1", after["fullDocument.userId"])

	moved := or[1].(bson.D).Map()
	assert.Equal(t, "update", moved["operationType"])
	assert.Equal(t, bson.A{
		bson.D{{Key: "updateDescription.updatedFields.userId", Value: bson.D{{Key: "$exists", Value: true}}}},
		bson.D{{Key: "updateDescription.removedFields", Value: "userId"}},
	}, moved["$or"])

	deleted := or[2].(bson.D).Map()
	assert.Equal(t, "delete", deleted["operationType"])
	assert.Equal(t, "a1", deleted["fullDocumentBeforeChange.userId"])

	noPreImage := or[3].(bson.D).Map()
	assert.Equal(t, "delete", noPreImage["operationType"])
	assert.Contains(t, noPreImage, "fullDocumentBeforeChange")
	assert.Nil(t, noPreImage["fullDocumentBeforeChange"])
}

func TestQueryChangeMatch_MultipleFilters(t *testing.T) {
	q := Query{
		Collection: core.MongoCollectionScreenshots,
		Filters:    []Filter{{Field: "userId", Value: "a1"}, {Field: "day", Value: "2024-05-01"}},
	}

	or := branches(t, QueryChangeMatch(q))
	after := or[0].(bson.D).Map()
	assert.Equal(t, "a1", after["fullDocument.userId"])
	assert.Equal(t, "2024-05-01", after["fullDocument.day"])
	assert.Len(t, or[1].(bson.D).Map()["$or"], 4)
}

func TestQueryChangeMatch_NoFiltersWakesOnAnyWrite(t *testing.T) {
	match := QueryChangeMatch(Query{Collection: core.MongoCollectionUsers})
	require.Len(t, match, 1)
	assert.Equal(t, "operationType", match[0].Key)
}

func TestQueryFilterAndOptions_MapForm(t *testing.T) {
	q := Query{
		Collection: core.MongoCollectionWorkShifts,
		Filters:    []Filter{{Field: "userId", Value: "a1"}},
		Range:      PrefixRange("shiftId", "2024-05-01"),
		OrderBy:    "startTime",
		Descending: true,
		Limit:      30,
	}

	filter := QueryFilter(q).Map()
	assert.Equal(t, "a1", filter["userId"])
	assert.Contains(t, filter, "shiftId")

	opts := QueryOptions(q)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(30), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "startTime", Value: -1}, {Key: IDField, Value: 1}}, opts.Sort)
}
