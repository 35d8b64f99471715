// Package backend opens the Content Store selected by configuration and
// hands out the post and follow stores built on it.
package backend

import (
	"context"
	"fmt"

	"backend-cuisinequest/internal/config"
	"backend-cuisinequest/internal/db"
	"backend-cuisinequest/internal/follow"
	"backend-cuisinequest/internal/memstore"
	"backend-cuisinequest/internal/post"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

type Backend struct {
	Driver  string
	Posts   post.Store
	Follows follow.Store

	closeFn func()
}

var (
	connectPostgresFn = db.ConnectPostgres
	connectMongoFn    = db.ConnectMongo
)

// Open connects to the configured store and prepares its schema.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := connectPostgresFn(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b, err := newPostgresBackend(ctx, pool, pool.Close)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return b, nil

	case config.DriverMongo:
		database, err := connectMongoFn(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		disconnect := func() {
			if err := database.Client().Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("backend: mongo disconnect")
			}
		}
		b, err := newMongoBackend(ctx, database, disconnect)
		if err != nil {
			disconnect()
			return nil, err
		}
		return b, nil

	case config.DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func NewMemory() *Backend {
	return &Backend{
		Driver:  config.DriverMemory,
		Posts:   memstore.NewPostStore(),
		Follows: memstore.NewFollowStore(),
	}
}

func newPostgresBackend(ctx context.Context, q db.Querier, closeFn func()) (*Backend, error) {
	if err := db.MigratePostgres(ctx, q); err != nil {
		return nil, err
	}
	return &Backend{
		Driver:  config.DriverPostgres,
		Posts:   post.NewPostgresStore(q),
		Follows: follow.NewPostgresStore(q),
		closeFn: closeFn,
	}, nil
}

func newMongoBackend(ctx context.Context, database *mongo.Database, closeFn func()) (*Backend, error) {
	if err := db.EnsureMongoIndexes(ctx, database); err != nil {
		return nil, err
	}
	return &Backend{
		Driver:  config.DriverMongo,
		Posts:   post.NewMongoStore(database),
		Follows: follow.NewMongoStore(database),
		closeFn: closeFn,
	}, nil
}

func (b *Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}
