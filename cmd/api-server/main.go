package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"reviewhub/database"
	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/http-api/handler"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
	"reviewhub/internal/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := cache.Connect(cfg)
	if err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	mail := mailer.New(cfg, logger)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewCodeRepository(redisClient)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, codeRepo, mail, cfg, logger)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.Authenticate(authService))

	// Auth endpoints are the only unauthenticated writes, so they carry
	// the rate limiter.
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow))
	handler.NewAuthHandler(authService).RegisterRoutes(auth)

	handler.NewUserHandler(userService).RegisterRoutes(api.Group("/users"))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(api.Group("/categories"))
	handler.NewGenreHandler(genreService).RegisterRoutes(api.Group("/genres"))
	handler.NewTitleHandler(titleService).RegisterRoutes(api.Group("/titles"))
	handler.NewReviewHandler(reviewService).RegisterRoutes(api.Group("/titles/:title_id/reviews"))
	handler.NewCommentHandler(commentService).RegisterRoutes(api.Group("/reviews/:review_id/comments"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
