// Package memstore keeps posts and follow edges in process memory. It backs
// the "memory" store driver used for local development and fixtures.
package memstore

import (
	"context"
	"sync"

	"backend-cuisinequest/internal/follow"
	"backend-cuisinequest/internal/post"
)

type FollowStore struct {
	mu    sync.RWMutex
	edges []follow.Edge
	byID  map[string]int
}

func NewFollowStore() *FollowStore {
	return &FollowStore{byID: map[string]int{}}
}

func (s *FollowStore) Find(_ context.Context, followerID, followeeID string) ([]follow.Edge, error) {
	return s.filter(func(e follow.Edge) bool {
		return e.FollowerID == followerID && e.FolloweeID == followeeID
	}), nil
}

func (s *FollowStore) Insert(_ context.Context, edge follow.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[edge.ID]; ok {
		return follow.ErrDuplicateEdge
	}
	for _, e := range s.edges {
		if e.FollowerID == edge.FollowerID && e.FolloweeID == edge.FolloweeID {
			return follow.ErrDuplicateEdge
		}
	}
	s.byID[edge.ID] = len(s.edges)
	s.edges = append(s.edges, edge)
	return nil
}

func (s *FollowStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[id]
	if !ok {
		return follow.ErrEdgeNotFound
	}
	s.edges = append(s.edges[:idx], s.edges[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.edges); i++ {
		s.byID[s.edges[i].ID] = i
	}
	return nil
}

func (s *FollowStore) ListByFollower(_ context.Context, followerID string) ([]follow.Edge, error) {
	return s.filter(func(e follow.Edge) bool { return e.FollowerID == followerID }), nil
}

func (s *FollowStore) ListByFollowee(_ context.Context, followeeID string) ([]follow.Edge, error) {
	return s.filter(func(e follow.Edge) bool { return e.FolloweeID == followeeID }), nil
}

func (s *FollowStore) filter(match func(follow.Edge) bool) []follow.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []follow.Edge
	for _, e := range s.edges {
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}

// PostStore returns posts in insertion order; callers sort.
type PostStore struct {
	mu    sync.RWMutex
	posts []post.Post
}

func NewPostStore() *PostStore {
	return &PostStore{}
}

func (s *PostStore) Insert(_ context.Context, p post.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Comments = append([]post.Comment(nil), p.Comments...)
	s.posts = append(s.posts, p)
	return nil
}

func (s *PostStore) List(_ context.Context, authorID string) ([]post.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []post.Post
	for _, p := range s.posts {
		if authorID == "" || p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PostStore) Get(_ context.Context, id string) (post.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return post.Post{}, post.ErrPostNotFound
}
