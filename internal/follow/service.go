package follow

import (
	"context"
	"errors"
	"time"

	"backend-cuisinequest/internal/apperr"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Follow creates the edge followerID -> followeeID. A pair that is already
// followed fails with AlreadyFollowing, including when a concurrent request
// wins the insert after the existence check.
func (s *Service) Follow(ctx context.Context, followerID, followeeID string) (Edge, error) {
	if followerID == "" || followeeID == "" {
		return Edge{}, apperr.MissingParameter("userId", "followingId")
	}
	if followerID == followeeID {
		return Edge{}, apperr.ErrSelfFollow
	}

	existing, err := s.store.Find(ctx, followerID, followeeID)
	if err != nil {
		return Edge{}, apperr.Store(err)
	}
	if len(existing) > 0 {
		return Edge{}, apperr.ErrAlreadyFollowing
	}

	edge := Edge{
		ID:         EdgeKey(followerID, followeeID),
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Insert(ctx, edge); err != nil {
		if errors.Is(err, ErrDuplicateEdge) {
			return Edge{}, apperr.ErrAlreadyFollowing
		}
		return Edge{}, apperr.Store(err)
	}
	return edge, nil
}

// Unfollow removes the first edge the store returns for the pair.
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if followerID == "" || followeeID == "" {
		return apperr.MissingParameter("userId", "followingId")
	}

	existing, err := s.store.Find(ctx, followerID, followeeID)
	if err != nil {
		return apperr.Store(err)
	}
	if len(existing) == 0 {
		return apperr.ErrNotFollowing
	}

	if err := s.store.Delete(ctx, existing[0].ID); err != nil {
		if errors.Is(err, ErrEdgeNotFound) {
			return apperr.ErrNotFollowing
		}
		return apperr.Store(err)
	}
	return nil
}

func (s *Service) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, apperr.MissingParameter("userId")
	}
	edges, err := s.store.ListByFollower(ctx, userID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FolloweeID)
	}
	return ids, nil
}

func (s *Service) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, apperr.MissingParameter("userId")
	}
	edges, err := s.store.ListByFollowee(ctx, userID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowerID)
	}
	return ids, nil
}

func (s *Service) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == "" || followeeID == "" {
		return false, apperr.MissingParameter("userId", "followingId")
	}
	edges, err := s.store.Find(ctx, followerID, followeeID)
	if err != nil {
		return false, apperr.Store(err)
	}
	return len(edges) > 0, nil
}
