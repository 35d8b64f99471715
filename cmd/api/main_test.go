package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"backend-cuisinequest/internal/backend"
	"backend-cuisinequest/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func testConfig() config.Config {
	return config.Config{ServerPort: ":0", JWTSecret: "secret", StoreDriver: config.DriverMemory}
}

func TestRunHandlesSignal(t *testing.T) {
	signals := make(chan os.Signal, 1)

	listenCalled := make(chan struct{}, 1)
	listen := func(_ *fiber.App, _ string) error {
		listenCalled <- struct{}{}
		return nil
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		signals <- syscall.SIGINT
	}()

	if err := Run(context.Background(), testConfig(), backend.NewMemory(), nil, signals, listen); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	select {
	case <-listenCalled:
	case <-time.After(time.Second):
		t.Fatalf("expected listen to be called")
	}
}

func TestRunContextCancel(t *testing.T) {
	signals := make(chan os.Signal, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Run(ctx, testConfig(), backend.NewMemory(), nil, signals, func(_ *fiber.App, _ string) error { return nil }); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestRunListenError(t *testing.T) {
	signals := make(chan os.Signal, 1)

	err := Run(context.Background(), testConfig(), backend.NewMemory(), nil, signals, func(_ *fiber.App, _ string) error {
		return errListen
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunDefaultListen(t *testing.T) {
	signals := make(chan os.Signal, 1)

	oldListen := defaultListen
	defaultListen = func(_ *fiber.App, _ string) error { return nil }
	defer func() { defaultListen = oldListen }()

	go func() {
		signals <- syscall.SIGINT
	}()

	if err := Run(context.Background(), testConfig(), backend.NewMemory(), nil, signals, nil); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestRunClosesResources(t *testing.T) {
	signals := make(chan os.Signal, 1)

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	listen := func(_ *fiber.App, _ string) error {
		signals <- syscall.SIGINT
		return nil
	}

	if err := Run(context.Background(), testConfig(), backend.NewMemory(), client, signals, listen); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if err := client.Ping(context.Background()).Err(); !errors.Is(err, redis.ErrClosed) {
		t.Fatalf("expected closed redis client, got %v", err)
	}
}

func TestRunShutdownError(t *testing.T) {
	signals := make(chan os.Signal, 1)

	oldShutdown := shutdownFn
	shutdownFn = func(_ *fiber.App, _ context.Context) error { return errListen }
	defer func() { shutdownFn = oldShutdown }()

	go func() {
		signals <- syscall.SIGINT
	}()

	if err := Run(context.Background(), testConfig(), backend.NewMemory(), nil, signals, func(_ *fiber.App, _ string) error {
		select {}
	}); err == nil {
		t.Fatalf("expected shutdown error")
	}
}

var errListen = errors.New("listen failed")

func TestRealMainRunsServer(t *testing.T) {
	calledNotify := false
	calledRun := false
	exitCode := -1
	deps := mainDeps{
		loadConfig:   testConfig,
		openBackend:  func(context.Context, config.Config) (*backend.Backend, error) { return backend.NewMemory(), nil },
		connectRedis: func(config.Config) *redis.Client { return nil },
		notify: func(ch chan<- os.Signal, _ ...os.Signal) {
			calledNotify = true
		},
		run: func(context.Context, config.Config, *backend.Backend, *redis.Client, <-chan os.Signal, ListenFunc) error {
			calledRun = true
			return nil
		},
		exit: func(code int) { exitCode = code },
	}

	realMain(deps)
	if !calledNotify || !calledRun {
		t.Fatalf("expected notify and run to be called")
	}
	if exitCode != -1 {
		t.Fatalf("expected no exit, got %d", exitCode)
	}
}

func TestRealMainFatalStartupErrors(t *testing.T) {
	runCalled := false
	base := mainDeps{
		loadConfig:   testConfig,
		openBackend:  func(context.Context, config.Config) (*backend.Backend, error) { return nil, errors.New("refused") },
		connectRedis: func(config.Config) *redis.Client { return nil },
		notify:       func(chan<- os.Signal, ...os.Signal) {},
		run: func(context.Context, config.Config, *backend.Backend, *redis.Client, <-chan os.Signal, ListenFunc) error {
			runCalled = true
			return nil
		},
	}

	exitCode := 0
	deps := base
	deps.exit = func(code int) { exitCode = code }
	realMain(deps)
	if exitCode != 1 || runCalled {
		t.Fatalf("expected exit 1 on store failure, got %d (run=%v)", exitCode, runCalled)
	}

	exitCode = 0
	deps = base
	deps.loadConfig = func() config.Config { return config.Config{StoreDriver: config.DriverMemory} }
	deps.exit = func(code int) { exitCode = code }
	realMain(deps)
	if exitCode != 1 || runCalled {
		t.Fatalf("expected exit 1 without JWT secret, got %d", exitCode)
	}

	exitCode = 0
	deps = base
	deps.openBackend = func(context.Context, config.Config) (*backend.Backend, error) { return backend.NewMemory(), nil }
	deps.run = func(context.Context, config.Config, *backend.Backend, *redis.Client, <-chan os.Signal, ListenFunc) error {
		return errListen
	}
	deps.exit = func(code int) { exitCode = code }
	realMain(deps)
	if exitCode != 1 {
		t.Fatalf("expected exit 1 when the server fails, got %d", exitCode)
	}
}

func TestDefaultDeps(t *testing.T) {
	deps := defaultDeps()
	if deps.loadConfig == nil || deps.openBackend == nil || deps.connectRedis == nil || deps.notify == nil || deps.run == nil || deps.exit == nil {
		t.Fatalf("expected default deps to be set")
	}
}

func TestMainUsesOverrides(t *testing.T) {
	oldProvider := mainDepsProvider
	oldRunner := mainRunner
	defer func() {
		mainDepsProvider = oldProvider
		mainRunner = oldRunner
	}()

	called := false
	mainDepsProvider = func() mainDeps { return mainDeps{} }
	mainRunner = func(mainDeps) { called = true }

	main()
	if !called {
		t.Fatalf("expected main runner to be called")
	}
}
