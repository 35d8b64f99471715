package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend-cuisinequest/internal/apperr"

	"github.com/google/uuid"
)

// Defaults fill fields a caller or an older stored document left empty.
type Defaults struct {
	ImageURL   string
	AuthorName string
}

// Publisher is notified after a post has been stored.
type Publisher interface {
	PublishPost(p Post)
}

type CreateInput struct {
	AuthorID    string `json:"userId"`
	AuthorName  string `json:"authorName"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
	ImageURL    string `json:"imageUrl"`
}

type Service struct {
	store     Store
	defaults  Defaults
	publisher Publisher
	now       func() time.Time
	newID     func() string
}

func NewService(store Store, defaults Defaults) *Service {
	return &Service{
		store:    store,
		defaults: defaults,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

func (s *Service) CreatePost(ctx context.Context, in CreateInput) (Post, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"userId", in.AuthorID},
		{"title", in.Title},
		{"description", in.Description},
		{"body", in.Body},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Post{}, apperr.MissingRequiredField(missing...)
	}

	now := s.now().UTC()
	p := s.normalize(Post{
		ID:          s.newID(),
		AuthorID:    in.AuthorID,
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		ImageURL:    in.ImageURL,
		AuthorName:  in.AuthorName,
		CreatedAt:   now,
		UpdatedAt:   now,
		Comments:    []Comment{},
	})
	if err := s.store.Insert(ctx, p); err != nil {
		return Post{}, apperr.Store(err)
	}

	if s.publisher != nil {
		s.publisher.PublishPost(p)
	}
	return p, nil
}

// ListPosts returns posts newest first, restricted to authorID when set.
func (s *Service) ListPosts(ctx context.Context, authorID string) ([]Post, error) {
	posts, err := s.store.List(ctx, authorID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, s.normalize(p))
	}
	SortNewestFirst(out)
	return out, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (Post, error) {
	if id == "" {
		return Post{}, apperr.MissingParameter("id")
	}
	p, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrPostNotFound) {
		return Post{}, apperr.NotFound("post")
	}
	if err != nil {
		return Post{}, apperr.Store(err)
	}
	return s.normalize(p), nil
}

func (s *Service) normalize(p Post) Post {
	if p.ImageURL == "" {
		p.ImageURL = s.defaults.ImageURL
	}
	if p.AuthorName == "" {
		p.AuthorName = s.defaults.AuthorName
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return p
}
