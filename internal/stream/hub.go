// Package stream delivers live feed events to connected viewers. Events for
// a user are fanned out to every websocket that user has open, and through
// Redis to the other API instances when a client is configured.
package stream

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	channelPrefix = "feed:"
	channelSuffix = ":broadcast"
	sendBuffer    = 64
)

type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

type Client struct {
	UserID string
	Send   chan []byte
}

// envelope is the relay format on Redis. Origin lets a hub skip the copy of
// its own broadcast, which it already delivered locally.
type envelope struct {
	Origin  string `json:"origin"`
	Payload []byte `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		h.ctx, h.cancel = context.WithCancel(context.Background())
		h.done = make(chan struct{})
		pubsub := redisClient.PSubscribe(h.ctx, redisChannel("*"))
		// Wait for the subscription so broadcasts sent right after NewHub
		// returns are not missed.
		if _, err := pubsub.Receive(h.ctx); err != nil {
			log.Warn().Err(err).Msg("stream: redis subscribe failed, relaying disabled")
		}
		go h.relay(pubsub)
	}
	return h
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userClients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := userClients[client]; !ok {
		return
	}
	delete(userClients, client)
	if len(userClients) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.Send)
}

// Connected reports how many sockets userID has open on this instance.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast delivers payload to userID's local sockets and publishes it for
// other instances. Slow consumers drop messages instead of blocking.
func (h *Hub) Broadcast(userID string, payload []byte) {
	h.deliver(userID, payload)

	if h.redis == nil {
		return
	}
	msg, err := json.Marshal(envelope{Origin: h.id, Payload: payload})
	if err != nil {
		log.Error().Err(err).Msg("stream: encode envelope")
		return
	}
	if err := h.redis.Publish(context.Background(), redisChannel(userID), msg).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("stream: redis publish failed")
	}
}

// Close stops the Redis relay. Registered clients are left to their handlers.
func (h *Hub) Close() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
}

func (h *Hub) deliver(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) relay(pubsub *redis.PubSub) {
	defer close(h.done)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Warn().Err(err).Str("channel", msg.Channel).Msg("stream: dropping malformed relay message")
				continue
			}
			if env.Origin == h.id {
				continue
			}
			h.deliver(userIDFromChannel(msg.Channel), env.Payload)
		}
	}
}

func redisChannel(userID string) string {
	return channelPrefix + userID + channelSuffix
}

// userIDFromChannel extracts {user} from feed:{user}:broadcast.
func userIDFromChannel(ch string) string {
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
