package post

import "context"

// Store persists posts. List returns every post when authorID is empty.
type Store interface {
	Insert(ctx context.Context, p Post) error
	List(ctx context.Context, authorID string) ([]Post, error)
	Get(ctx context.Context, id string) (Post, error)
}
