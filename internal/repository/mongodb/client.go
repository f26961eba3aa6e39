// Package mongodb backs the entity stores with MongoDB collections. The
// entity id is stored as the document _id.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps a connected MongoDB client scoped to one database.
type Client struct {
	client *mongo.Client
	dbName string
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Client{client: client, dbName: dbName}, nil
}

// Database returns the underlying database handle.
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.dbName)
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
