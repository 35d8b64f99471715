package post

import (
	"context"
	"errors"
	"time"

	"backend-cuisinequest/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// postDocument mirrors the stored shape. Older documents may lack views,
// image_url, author_name, updated_at or comments.
type postDocument struct {
	ID          string            `bson:"_id"`
	AuthorID    string            `bson:"user_id"`
	Title       string            `bson:"title"`
	Description string            `bson:"description"`
	Body        string            `bson:"body"`
	ImageURL    *string           `bson:"image_url,omitempty"`
	AuthorName  *string           `bson:"author_name,omitempty"`
	CreatedAt   time.Time         `bson:"created_at"`
	UpdatedAt   *time.Time        `bson:"updated_at,omitempty"`
	Likes       int               `bson:"likes"`
	Comments    []commentDocument `bson:"comments,omitempty"`
	Views       *int              `bson:"views,omitempty"`
}

type commentDocument struct {
	UserID    string    `bson:"user_id"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

func newPostDocument(p Post) postDocument {
	doc := postDocument{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Description: p.Description,
		Body:        p.Body,
		ImageURL:    &p.ImageURL,
		AuthorName:  &p.AuthorName,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   &p.UpdatedAt,
		Likes:       p.Likes,
		Views:       &p.Views,
		Comments:    []commentDocument{},
	}
	for _, c := range p.Comments {
		doc.Comments = append(doc.Comments, commentDocument(c))
	}
	return doc
}

func (d postDocument) post() Post {
	p := Post{
		ID:          d.ID,
		AuthorID:    d.AuthorID,
		Title:       d.Title,
		Description: d.Description,
		Body:        d.Body,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.CreatedAt,
		Likes:       d.Likes,
		Comments:    make([]Comment, 0, len(d.Comments)),
	}
	if d.ImageURL != nil {
		p.ImageURL = *d.ImageURL
	}
	if d.AuthorName != nil {
		p.AuthorName = *d.AuthorName
	}
	if d.UpdatedAt != nil {
		p.UpdatedAt = *d.UpdatedAt
	}
	if d.Views != nil {
		p.Views = *d.Views
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, Comment(c))
	}
	return p
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{coll: database.Collection(db.PostsCollection)}
}

func (s *MongoStore) Insert(ctx context.Context, p Post) error {
	_, err := s.coll.InsertOne(ctx, newPostDocument(p))
	return err
}

func (s *MongoStore) List(ctx context.Context, authorID string) ([]Post, error) {
	filter := bson.D{}
	if authorID != "" {
		filter = bson.D{{Key: "user_id", Value: authorID}}
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []Post
	for cursor.Next(ctx) {
		var doc postDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		posts = append(posts, doc.post())
	}
	return posts, cursor.Err()
}

func (s *MongoStore) Get(ctx context.Context, id string) (Post, error) {
	var doc postDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return doc.post(), nil
}
