package post

import (
	"errors"
	"sort"
	"time"
)

type Post struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	ImageURL    string    `json:"imageUrl"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Likes       int       `json:"likes"`
	Comments    []Comment `json:"comments"`
	Views       int       `json:"views"`
}

type Comment struct {
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

var ErrPostNotFound = errors.New("post: not found")

// SortNewestFirst orders posts by CreatedAt descending. Equal timestamps keep
// the order the store returned them in.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
