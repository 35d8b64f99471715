package server

import (
	"backend-cuisinequest/internal/apperr"
	"backend-cuisinequest/internal/auth"
	"backend-cuisinequest/internal/backend"
	"backend-cuisinequest/internal/config"
	"backend-cuisinequest/internal/feed"
	"backend-cuisinequest/internal/follow"
	"backend-cuisinequest/internal/post"
	"backend-cuisinequest/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	Backend *backend.Backend
	Redis   *redis.Client
	Stream  *stream.Hub
	Latency *LatencyRecorder
}

func NewServer(cfg config.Config, b *backend.Backend, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	s := &Server{
		App:     app,
		Cfg:     cfg,
		Backend: b,
		Redis:   redisClient,
		Stream:  stream.NewHub(redisClient),
		Latency: NewLatencyRecorder(),
	}
	app.Use(s.Latency.Middleware())

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/debug/latency", s.Latency.Handler)

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	followSvc := follow.NewService(s.Backend.Follows)
	postSvc := post.NewService(s.Backend.Posts, post.Defaults{
		ImageURL:   s.Cfg.DefaultImageURL,
		AuthorName: s.Cfg.DefaultAuthorName,
	})
	postSvc.SetPublisher(feed.NewPublisher(followSvc, s.Stream))
	feedSvc := feed.NewService(postSvc, followSvc)

	api := s.App.Group(s.Cfg.BasePath)
	auth.RegisterRoutes(api.Group("/auth"), auth.NewService(s.Cfg.JWTSecret))
	follow.RegisterRoutes(api.Group("/follows"), followSvc, jwtMiddleware)
	post.RegisterRoutes(api.Group("/posts"), postSvc, jwtMiddleware)
	feed.RegisterRoutes(api, feedSvc)
	stream.RegisterRoutes(api.Group("/stream"), s.Stream)
}

// Close releases the live-update relay. The backend and Redis client belong
// to the caller.
func (s *Server) Close() {
	s.Stream.Close()
}
