package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// Mongo returns a driver harness backed by a mock deployment. Each mt.Run
// gets a fresh client and collection; replies are queued with AddMockResponses.
func Mongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// Batch is a complete cursor reply (no getMore) holding docs.
func Batch(mt *mtest.T, docs ...bson.D) bson.D {
	ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, docs...)
}

// Count is the aggregate reply CountDocuments reads its total from.
func Count(mt *mtest.T, n int64) bson.D {
	return Batch(mt, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: n}})
}

// Matched is an update reply for n matched documents.
func Matched(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

// Deleted is a delete reply for n removed documents.
func Deleted(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n})
}

func Inserted() bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1})
}

// DuplicateKey is the write error a unique index raises.
func DuplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error",
	})
}

// Sent pops the oldest command the client sent.
func Sent(mt *mtest.T) bson.Raw {
	ev := mt.GetStartedEvent()
	require.NotNil(mt, ev, "no command was sent")
	return ev.Command
}
