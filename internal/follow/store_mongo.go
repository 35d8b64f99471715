package follow

import (
	"context"
	"time"

	"backend-cuisinequest/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type edgeDocument struct {
	ID         string    `bson:"_id"`
	FollowerID string    `bson:"follower_id"`
	FolloweeID string    `bson:"followee_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{coll: database.Collection(db.FollowEdgesCollection)}
}

func (s *MongoStore) Find(ctx context.Context, followerID, followeeID string) ([]Edge, error) {
	return s.find(ctx, bson.D{
		{Key: "follower_id", Value: followerID},
		{Key: "followee_id", Value: followeeID},
	})
}

func (s *MongoStore) Insert(ctx context.Context, edge Edge) error {
	_, err := s.coll.InsertOne(ctx, edgeDocument{
		ID:         edge.ID,
		FollowerID: edge.FollowerID,
		FolloweeID: edge.FolloweeID,
		CreatedAt:  edge.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEdge
	}
	return err
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrEdgeNotFound
	}
	return nil
}

func (s *MongoStore) ListByFollower(ctx context.Context, followerID string) ([]Edge, error) {
	return s.find(ctx, bson.D{{Key: "follower_id", Value: followerID}})
}

func (s *MongoStore) ListByFollowee(ctx context.Context, followeeID string) ([]Edge, error) {
	return s.find(ctx, bson.D{{Key: "followee_id", Value: followeeID}})
}

func (s *MongoStore) find(ctx context.Context, filter bson.D) ([]Edge, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []Edge
	for cursor.Next(ctx) {
		var doc edgeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		edges = append(edges, Edge{
			ID:         doc.ID,
			FollowerID: doc.FollowerID,
			FolloweeID: doc.FolloweeID,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return edges, cursor.Err()
}
