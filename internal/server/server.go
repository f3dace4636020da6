// Package server contains the HTTP handlers for the moderation board API.
package server

import (
	"context"
	"fmt"
	"time"

	"modboard/internal/cache"
	"modboard/internal/config"
	"modboard/internal/dataservice"
	"modboard/internal/images"
	"modboard/internal/middleware"
	"modboard/internal/review"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	data           *dataservice.Service
	reviews        *review.Store
	cache          *cache.Cache
	probeCache     *images.ProbeCache
	promMiddleware *fiberprometheus.FiberPrometheus
}

// NewServer creates a server instance with all dependencies. The data
// pipeline reads from the local data directory unless DATA_BASE_URL points it
// at a remote host.
func NewServer(cfg *config.Config) (*Server, error) {
	var (
		fetcher dataservice.Fetcher
		prober  images.Prober
	)
	if cfg.DataBaseURL != "" {
		fetcher = dataservice.NewHTTPFetcher(cfg.DataBaseURL)
		prober = images.NewHTTPProber(cfg.DataBaseURL)
	} else {
		fetcher = dataservice.NewFileFetcher(cfg.DataDir)
		prober = images.NewFileProber(cfg.DataDir)
	}

	probeCache := images.NewProbeCache()
	resolver := images.NewResolver(prober, probeCache, images.ResolverConfig{
		MaxImages:    cfg.ImageMaxPerPost,
		ProbeTimeout: cfg.ProbeTimeout(),
	}, middleware.Logger)

	data := dataservice.NewService(fetcher, resolver, dataservice.Config{
		BatchSize: cfg.ImageBatchSize,
	}, middleware.Logger)

	reviews, err := review.Open(cfg.ReviewDBPath)
	if err != nil {
		return nil, fmt.Errorf("review store: %w", err)
	}

	return &Server{
		config:         cfg,
		data:           data,
		reviews:        reviews,
		cache:          cache.New(cfg.RedisURL, middleware.Logger),
		probeCache:     probeCache,
		promMiddleware: middleware.InitMetrics("modboard-api"),
	}, nil
}

// NewServerWithDeps creates a Server from already-initialized dependencies.
// Used by tests; skips the Prometheus middleware so repeated construction
// does not re-register collectors.
func NewServerWithDeps(cfg *config.Config, data *dataservice.Service, reviews *review.Store, responseCache *cache.Cache, probeCache *images.ProbeCache) *Server {
	return &Server{
		config:     cfg,
		data:       data,
		reviews:    reviews,
		cache:      responseCache,
		probeCache: probeCache,
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))

	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// The raw partition files and images are served as-is so the frontend
	// can load the paths the pipeline hands out.
	if s.config.DataBaseURL == "" && s.config.DataDir != "" {
		app.Static("/data", s.config.DataDir)
	}

	api := app.Group("/api")

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/search", middleware.RateLimit(
		s.cache.Client(), 10, time.Minute, "search"), s.SearchPosts)
	// Specific /:id/:resource routes before the generic /:id route.
	posts.Get("/:id/review", s.GetPostReview)
	posts.Get("/:id", s.GetPost)

	api.Get("/users/:id/posts", s.GetUserPosts)
	api.Get("/tags/popular", s.GetPopularTags)
	api.Get("/statistics", s.GetStatistics)

	api.Post("/cache/clear", s.ClearCache)

	reviews := api.Group("/reviews")
	reviews.Post("/", middleware.RateLimit(
		s.cache.Client(), 30, time.Minute, "create_review"), s.CreateReview)
	reviews.Get("/", s.ListReviews)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.cache.Close()
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the health of the review store and Redis. Redis is
// optional, so an unavailable cache degrades the report without failing it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.reviews.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.cache.Enabled() {
		if err := s.cache.Client().Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"reviews": dbStatus,
			"redis":   redisStatus,
		},
		"time": time.Now(),
	})
}
