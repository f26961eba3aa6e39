package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avicontrol/avicontrol/internal/store"
)

// Collection adapts one MongoDB collection to the store.Source contract.
type Collection[T store.Entity[T]] struct {
	coll *mongo.Collection
}

// NewCollection binds a Source implementation to the named collection.
func NewCollection[T store.Entity[T]](client *Client, name string) *Collection[T] {
	return &Collection[T]{coll: client.Database().Collection(name)}
}

// FetchAll returns every document in the collection.
func (c *Collection[T]) FetchAll(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var records []T
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return records, nil
}

// CreateOne inserts the record and echoes it back.
func (c *Collection[T]) CreateOne(ctx context.Context, record T) (T, error) {
	var zero T
	if _, err := c.coll.InsertOne(ctx, record); err != nil {
		return zero, fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return record, nil
}

// UpdateOne replaces the document with the given _id. The boolean reports
// whether a document matched.
func (c *Collection[T]) UpdateOne(ctx context.Context, id string, record T) (T, bool, error) {
	var zero T
	result, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, record)
	if err != nil {
		return zero, false, fmt.Errorf("replace in %s: %w", c.coll.Name(), err)
	}
	if result.MatchedCount == 0 {
		return zero, false, nil
	}
	return record, true, nil
}

// DeleteOne removes the document with the given _id, reporting whether it
// existed.
func (c *Collection[T]) DeleteOne(ctx context.Context, id string) (bool, error) {
	result, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	return result.DeletedCount > 0, nil
}
