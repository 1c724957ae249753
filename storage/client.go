package storage

import (
	"context"
	"net/url"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient defines the interface for a MongoDB client.
type MongoClient interface {
	Disconnect(ctx context.Context) error
	Database(name string, opts ...*options.DatabaseOptions) *mongo.Database
}

// mongoClientWrapper is a wrapper for the mongo.Client that implements the MongoClient interface.
type mongoClientWrapper struct {
	*mongo.Client
}

// NewMongoClient creates a new MongoClient.
func NewMongoClient(client *mongo.Client) MongoClient {
	return &mongoClientWrapper{client}
}

// redactURI hides the password of a connection string before it is logged.
func redactURI(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "<unparseable uri>"
	}
	if parsed.User == nil {
		return uri
	}
	if _, hasPassword := parsed.User.Password(); hasPassword {
		parsed.User = url.UserPassword(parsed.User.Username(), "xxxxx")
	}

	return parsed.String()
}
