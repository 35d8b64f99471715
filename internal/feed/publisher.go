package feed

import (
	"context"
	"encoding/json"
	"time"

	"backend-cuisinequest/internal/post"

	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

type Event struct {
	Type string    `json:"type"`
	Post post.Post `json:"post"`
}

type FollowerSource interface {
	ListFollowers(ctx context.Context, userID string) ([]string, error)
}

type Broadcaster interface {
	Broadcast(userID string, payload []byte)
}

// Publisher pushes newly created posts to the live channels of the
// author's followers.
type Publisher struct {
	followers FollowerSource
	hub       Broadcaster
	timeout   time.Duration
	// async is false in tests so delivery can be asserted synchronously.
	async bool
}

func NewPublisher(followers FollowerSource, hub Broadcaster) *Publisher {
	return &Publisher{followers: followers, hub: hub, timeout: publishTimeout, async: true}
}

func (p *Publisher) PublishPost(created post.Post) {
	if p.async {
		go p.publish(created)
		return
	}
	p.publish(created)
}

func (p *Publisher) publish(created post.Post) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	followers, err := p.followers.ListFollowers(ctx, created.AuthorID)
	if err != nil {
		log.Warn().Err(err).Str("post_id", created.ID).Msg("feed: follower lookup failed, live update skipped")
		return
	}
	if len(followers) == 0 {
		return
	}

	payload, err := json.Marshal(Event{Type: "post.created", Post: created})
	if err != nil {
		log.Error().Err(err).Str("post_id", created.ID).Msg("feed: encode live update")
		return
	}
	for _, id := range followers {
		p.hub.Broadcast(id, payload)
	}
	log.Debug().Str("post_id", created.ID).Int("followers", len(followers)).Msg("feed: live update published")
}
