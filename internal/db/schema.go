package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PostsCollection       = "posts"
	FollowEdgesCollection = "follow_edges"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		body TEXT NOT NULL,
		image_url TEXT,
		author_name TEXT,
		likes INTEGER NOT NULL DEFAULT 0,
		comments JSONB NOT NULL DEFAULT '[]',
		views INTEGER,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS posts_user_created_idx ON posts (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_created_idx ON posts (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS follow_edges (
		id TEXT PRIMARY KEY,
		follower_id TEXT NOT NULL,
		followee_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (follower_id, followee_id)
	)`,
	`CREATE INDEX IF NOT EXISTS follow_edges_followee_idx ON follow_edges (followee_id)`,
}

func MigratePostgres(ctx context.Context, q Querier) error {
	for _, stmt := range postgresSchema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return nil
}

func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(FollowEdgesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "follower_id", Value: 1}, {Key: "followee_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "followee_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure follow_edges indexes: %w", err)
	}

	_, err = database.Collection(PostsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure posts indexes: %w", err)
	}
	return nil
}
