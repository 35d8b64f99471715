package follow

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Edge records that FollowerID follows FolloweeID. Edges are directed and
// never updated in place.
type Edge struct {
	ID         string    `json:"id"`
	FollowerID string    `json:"userId"`
	FolloweeID string    `json:"followingId"`
	CreatedAt  time.Time `json:"createdAt"`
}

var (
	ErrDuplicateEdge = errors.New("follow: edge already exists")
	ErrEdgeNotFound  = errors.New("follow: edge not found")
)

var edgeNamespace = uuid.MustParse("5b0f3c52-7f0e-4a4e-9d43-5f2a8e61c0d4")

// EdgeKey derives the edge identifier from the ordered pair, so a second
// insert for the same pair collides on the primary key.
func EdgeKey(followerID, followeeID string) string {
	return uuid.NewSHA1(edgeNamespace, []byte(followerID+"\x1f"+followeeID)).String()
}
