package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-cuisinequest/internal/backend"
	"backend-cuisinequest/internal/config"
	"backend-cuisinequest/internal/db"
	"backend-cuisinequest/internal/logging"
	"backend-cuisinequest/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig   func() config.Config
	openBackend  func(context.Context, config.Config) (*backend.Backend, error)
	connectRedis func(config.Config) *redis.Client
	notify       func(chan<- os.Signal, ...os.Signal)
	run          func(context.Context, config.Config, *backend.Backend, *redis.Client, <-chan os.Signal, ListenFunc) error
	exit         func(int)
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:   config.Load,
		openBackend:  backend.Open,
		connectRedis: db.ConnectRedis,
		notify:       signal.Notify,
		run:          Run,
		exit:         os.Exit,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		deps.exit(1)
		return
	}

	b, err := deps.openBackend(context.Background(), cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("content store unavailable")
		deps.exit(1)
		return
	}
	log.Info().Str("driver", b.Driver).Msg("content store ready")

	rdb := deps.connectRedis(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, b, rdb, signals, nil); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		deps.exit(1)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, b *backend.Backend, rdb *redis.Client, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, b, rdb)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
		log.Info().Msg("shutting down")
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	srv.Close()
	if b != nil {
		b.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
