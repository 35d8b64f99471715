// Package fixtures loads seed data from YAML and applies it through the
// services, so seeded data passes the same validation as API traffic.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"os"

	"backend-cuisinequest/internal/apperr"
	"backend-cuisinequest/internal/follow"
	"backend-cuisinequest/internal/post"

	"gopkg.in/yaml.v3"
)

type User struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type Post struct {
	UserID      string `yaml:"userId"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Body        string `yaml:"body"`
	ImageURL    string `yaml:"imageUrl"`
}

type Follow struct {
	UserID      string `yaml:"userId"`
	FollowingID string `yaml:"followingId"`
}

type File struct {
	Users   []User   `yaml:"users"`
	Posts   []Post   `yaml:"posts"`
	Follows []Follow `yaml:"follows"`
}

type Result struct {
	Posts   int
	Follows int
	Skipped int
}

type FollowService interface {
	Follow(ctx context.Context, followerID, followeeID string) (follow.Edge, error)
}

type PostService interface {
	CreatePost(ctx context.Context, in post.CreateInput) (post.Post, error)
}

func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse fixtures: %w", err)
	}
	seen := map[string]bool{}
	for i, u := range f.Users {
		if u.ID == "" {
			return File{}, fmt.Errorf("parse fixtures: users[%d] has no id", i)
		}
		if seen[u.ID] {
			return File{}, fmt.Errorf("parse fixtures: duplicate user %q", u.ID)
		}
		seen[u.ID] = true
	}
	return f, nil
}

// Apply creates the posts, then the follows. Follows that already exist are
// counted as skipped so a fixture can be applied more than once.
func Apply(ctx context.Context, f File, follows FollowService, posts PostService) (Result, error) {
	names := map[string]string{}
	for _, u := range f.Users {
		names[u.ID] = u.Name
	}

	var res Result
	for i, p := range f.Posts {
		_, err := posts.CreatePost(ctx, post.CreateInput{
			AuthorID:    p.UserID,
			AuthorName:  names[p.UserID],
			Title:       p.Title,
			Description: p.Description,
			Body:        p.Body,
			ImageURL:    p.ImageURL,
		})
		if err != nil {
			return res, fmt.Errorf("posts[%d]: %w", i, err)
		}
		res.Posts++
	}

	for i, fl := range f.Follows {
		_, err := follows.Follow(ctx, fl.UserID, fl.FollowingID)
		if errors.Is(err, apperr.ErrAlreadyFollowing) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("follows[%d]: %w", i, err)
		}
		res.Follows++
	}
	return res, nil
}
