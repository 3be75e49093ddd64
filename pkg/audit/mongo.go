package audit

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCollection is the subset of *mongo.Collection the writer needs.
type MongoCollection interface {
	InsertMany(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error)
}

// DefaultMongoCollection is the collection name used by cmd/accessd.
const DefaultMongoCollection = "access_audit_log"

// MongoWriter inserts records as documents keyed by record id.
type MongoWriter struct {
	coll MongoCollection
}

func NewMongoWriter(coll MongoCollection) *MongoWriter {
	return &MongoWriter{coll: coll}
}

func (w *MongoWriter) StoreBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = rec
	}
	res, err := w.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("audit: mongo insert: %w", err)
	}
	if res != nil && len(res.InsertedIDs) != len(records) {
		return fmt.Errorf("audit: mongo inserted %d of %d records", len(res.InsertedIDs), len(records))
	}
	return nil
}
