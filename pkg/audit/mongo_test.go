package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
)

type fakeCollection struct {
	docs []any
	opts int
	err  error
}

func (f *fakeCollection) InsertMany(_ context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.docs = documents.([]any)
	f.opts = len(opts)
	ids := make([]any, len(f.docs))
	for i, d := range f.docs {
		ids[i] = d.(audit.Record).ID
	}
	return &mongo.InsertManyResult{InsertedIDs: ids}, nil
}

func TestMongoWriter_StoreBatch(t *testing.T) {
	t.Parallel()

	coll := &fakeCollection{}
	w := audit.NewMongoWriter(coll)

	require.NoError(t, w.StoreBatch(context.Background(), []audit.Record{testRecord(1), testRecord(2)}))
	require.Len(t, coll.docs, 2)
	assert.Equal(t, 1, coll.opts)

	raw, err := bson.Marshal(coll.docs[0])
	require.NoError(t, err)
	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, testRecord(1).ID, doc["_id"])
	assert.Equal(t, "user_1", doc["userId"])
	assert.Equal(t, "viewer", doc["userRole"])
	assert.NotContains(t, doc, "requiredPermission")
}

func TestMongoWriter_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	w := audit.NewMongoWriter(&fakeCollection{err: boom})

	assert.NoError(t, w.StoreBatch(context.Background(), nil))
	assert.ErrorIs(t, w.StoreBatch(context.Background(), []audit.Record{testRecord(1)}), boom)
}
