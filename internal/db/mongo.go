package db

import (
	"context"
	"time"

	"backend-cuisinequest/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

var pingMongoFn = func(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

func mongoOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMinPoolSize(5).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(45 * time.Second).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())
}

// ConnectMongo returns a handle on the configured database. The client is
// disconnected again when the initial ping fails.
func ConnectMongo(cfg config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoOptions(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := pingMongoFn(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client.Database(cfg.MongoDatabase), nil
}
