package server

import (
	"backend-tripnick/internal/apperr"
	"backend-tripnick/internal/auth"
	"backend-tripnick/internal/cache"
	"backend-tripnick/internal/config"
	"backend-tripnick/internal/image"
	"backend-tripnick/internal/list"
	"backend-tripnick/internal/post"
	"backend-tripnick/internal/spot"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stamps *cache.Stamps
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(auth.IdentityMiddleware(cfg.JWTSecret))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stamps: cache.NewStamps(redisClient, nil),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	spot.RegisterRoutes(s.App.Group("/spots"), spot.NewService(s.DB))
	image.RegisterRoutes(s.App.Group("/images"), image.NewService(s.DB))
	list.RegisterRoutes(s.App.Group("/lists"), list.NewService(s.DB))
	post.RegisterRoutes(s.App.Group("/posts"), post.NewService(s.DB, s.Stamps))
	cache.RegisterRoutes(s.App.Group("/cache"), s.Stamps)
}
