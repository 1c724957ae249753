package storage

import (
	"context"
	"fmt"

	"expensetracker/appcontext"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ---- Abstractions for Testability ----

// DataStore defines the collection operations used by the repository.
type DataStore interface {
	InsertOne(
		ctx context.Context,
		document interface{},
		opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(
		ctx context.Context,
		filter interface{},
		opts ...*options.FindOptions) (*mongo.Cursor, error)
	DeleteOne(
		ctx context.Context,
		filter interface{},
		opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// CollectionProvider defines the interface for obtaining a collection.
type CollectionProvider interface {
	Collection(name string) DataStore
}

// MongoCollection adapts *mongo.Collection to DataStore.
type MongoCollection struct {
	*mongo.Collection
}

// InsertOne inserts a single document.
func (c *MongoCollection) InsertOne(
	ctx context.Context,
	document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	result, err := c.Collection.InsertOne(ctx, document, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform InsertOne: %w", err)
	}

	return result, nil
}

// Find returns a cursor over the documents matching filter.
func (c *MongoCollection) Find(
	ctx context.Context,
	filter interface{},
	opts ...*options.FindOptions) (*mongo.Cursor, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform Find: %w", err)
	}

	return cursor, nil
}

// DeleteOne deletes at most one document matching filter.
func (c *MongoCollection) DeleteOne(
	ctx context.Context,
	filter interface{},
	opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	result, err := c.Collection.DeleteOne(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform DeleteOne: %w", err)
	}

	return result, nil
}

// MongoProvider adapts a MongoClient to CollectionProvider.
type MongoProvider struct {
	client MongoClient
	dbName string
}

// NewMongoProvider creates a new MongoProvider serving collections of dbName.
func NewMongoProvider(client MongoClient, dbName string) *MongoProvider {
	return &MongoProvider{client: client, dbName: dbName}
}

// Collection returns a DataStore for the given collection name.
func (p *MongoProvider) Collection(name string) DataStore {
	return &MongoCollection{p.client.Database(p.dbName).Collection(name)}
}

// ConnectToMongoDB establishes a connection to MongoDB and verifies it with a ping.
func ConnectToMongoDB(ctx context.Context, uri string) (MongoClient, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Attempting to connect to MongoDB", "uri", redactURI(uri))

	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.InfoContext(ctx, "Successfully established connection to MongoDB")
	return NewMongoClient(client), nil
}

// ConnectToMongoDBFunc is the connect function used by the CLI. Tests may replace it.
var ConnectToMongoDBFunc = ConnectToMongoDB
