package follow

import "context"

// Store is the follow_edges collection of the Content Store.
type Store interface {
	Find(ctx context.Context, followerID, followeeID string) ([]Edge, error)
	// Insert returns ErrDuplicateEdge when an edge with the same key exists.
	Insert(ctx context.Context, edge Edge) error
	// Delete returns ErrEdgeNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error
	ListByFollower(ctx context.Context, followerID string) ([]Edge, error)
	ListByFollowee(ctx context.Context, followeeID string) ([]Edge, error)
}
