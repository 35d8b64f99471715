package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend-cuisinequest/internal/db"

	"github.com/jackc/pgx/v5"
)

const selectPosts = `
	SELECT id, user_id, title, description, body, COALESCE(image_url, ''), COALESCE(author_name, ''),
		likes, comments, COALESCE(views, 0), created_at, updated_at
	FROM posts
`

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Insert(ctx context.Context, p Post) error {
	comments, err := json.Marshal(nonNilComments(p.Comments))
	if err != nil {
		return fmt.Errorf("encode comments: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO posts (id, user_id, title, description, body, image_url, author_name, likes, comments, views, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, p.ID, p.AuthorID, p.Title, p.Description, p.Body, p.ImageURL, p.AuthorName,
		p.Likes, string(comments), p.Views, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *PostgresStore) List(ctx context.Context, authorID string) ([]Post, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if authorID == "" {
		rows, err = s.db.Query(ctx, selectPosts+` ORDER BY created_at DESC`)
	} else {
		rows, err = s.db.Query(ctx, selectPosts+` WHERE user_id=$1 ORDER BY created_at DESC`, authorID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Post, error) {
	p, err := scanPost(s.db.QueryRow(ctx, selectPosts+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrPostNotFound
	}
	return p, err
}

func scanPost(row pgx.Row) (Post, error) {
	var (
		p        Post
		comments []byte
	)
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Description, &p.Body, &p.ImageURL, &p.AuthorName,
		&p.Likes, &comments, &p.Views, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Post{}, err
	}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &p.Comments); err != nil {
			return Post{}, fmt.Errorf("decode comments for post %s: %w", p.ID, err)
		}
	}
	p.Comments = nonNilComments(p.Comments)
	return p, nil
}

func nonNilComments(c []Comment) []Comment {
	if c == nil {
		return []Comment{}
	}
	return c
}
