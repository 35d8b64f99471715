// Package feed composes the post corpus with a viewer's follow set into an
// annotated, newest-first feed. Feeds are computed per request and never cached.
package feed

import (
	"context"

	"backend-cuisinequest/internal/apperr"
	"backend-cuisinequest/internal/post"

	"github.com/rs/zerolog/log"
)

type Mode string

const (
	ModeAll       Mode = "all"
	ModeFollowing Mode = "following"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeFollowing:
		return ModeFollowing, nil
	}
	return "", apperr.InvalidParameter("mode", s)
}

type Item struct {
	post.Post
	IsFollowingAuthor bool `json:"isFollowingAuthor"`
	IsOwnPost         bool `json:"isOwnPost"`
}

type Request struct {
	// ViewerID is empty for anonymous viewers, who get an unannotated feed.
	ViewerID string
	// AuthorID restricts the feed to one author's posts when set.
	AuthorID string
	Mode     Mode
}

type PostSource interface {
	ListPosts(ctx context.Context, authorID string) ([]post.Post, error)
	GetPost(ctx context.Context, id string) (post.Post, error)
}

type FollowingSource interface {
	ListFollowing(ctx context.Context, userID string) ([]string, error)
}

type Service struct {
	posts   PostSource
	follows FollowingSource
}

func NewService(posts PostSource, follows FollowingSource) *Service {
	return &Service{posts: posts, follows: follows}
}

func (s *Service) GetFeed(ctx context.Context, req Request) ([]Item, error) {
	if req.Mode == "" {
		req.Mode = ModeAll
	}
	if req.Mode == ModeFollowing && req.ViewerID == "" {
		return nil, apperr.MissingParameter("viewerId")
	}

	posts, err := s.posts.ListPosts(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	post.SortNewestFirst(posts)

	following := s.followingSet(ctx, req.ViewerID)

	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		item := annotate(p, req.ViewerID, following)
		if req.Mode == ModeFollowing && !item.IsFollowingAuthor {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetPost returns one post annotated for viewerID.
func (s *Service) GetPost(ctx context.Context, id, viewerID string) (Item, error) {
	p, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return Item{}, err
	}
	return annotate(p, viewerID, s.followingSet(ctx, viewerID)), nil
}

// followingSet returns the ids viewerID follows. A failed lookup yields an
// empty set so the feed is still served, unannotated.
func (s *Service) followingSet(ctx context.Context, viewerID string) map[string]struct{} {
	set := map[string]struct{}{}
	if viewerID == "" {
		return set
	}
	ids, err := s.follows.ListFollowing(ctx, viewerID)
	if err != nil {
		log.Warn().Err(err).Str("viewer_id", viewerID).Msg("feed: following lookup failed, serving unannotated feed")
		return set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func annotate(p post.Post, viewerID string, following map[string]struct{}) Item {
	_, followed := following[p.AuthorID]
	return Item{
		Post:              p,
		IsFollowingAuthor: followed,
		IsOwnPost:         viewerID != "" && p.AuthorID == viewerID,
	}
}
