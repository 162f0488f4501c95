package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/book-review/backend/internal/cache"
	"github.com/emilythestrangee/book-review/backend/internal/config"
	"github.com/emilythestrangee/book-review/backend/internal/database"
	"github.com/emilythestrangee/book-review/backend/internal/handlers"
	"github.com/emilythestrangee/book-review/backend/internal/middleware"
	"github.com/emilythestrangee/book-review/backend/internal/notify"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Raw schema bootstrap carries the FK ON DELETE CASCADE clauses and
	// the votes uniqueness constraint.
	bootstrap, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := bootstrap.Initialize(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	if err := bootstrap.Close(); err != nil {
		log.Printf("Failed to close bootstrap connection: %v", err)
	}

	db := database.New(cfg)

	store := newCacheStore(cfg)
	sms := notify.NewSMSNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create uploads directory: %v", err)
	}

	handler := handlers.NewHandler(db.GetDB(), store, cfg, logger, sms)

	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", cfg.Port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// newCacheStore picks the cache backend. The in-process store is the
// default; Redis carries the same key and prefix semantics across
// instances.
func newCacheStore(cfg *config.Config) cache.Store {
	if cfg.CacheBackend == "redis" {
		return cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheDefaultTTL)
	}
	return cache.NewMemory(cfg.CacheDefaultTTL)
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Cover images
	r.Static("/uploads", s.cfg.UploadDir)

	// Auth routes (public)
	r.POST("/signup", s.handler.Auth.Signup)
	r.POST("/login", s.handler.Auth.Login)

	// Protected routes (authentication required)
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware([]byte(s.cfg.JWTSecret)))
	{
		protected.POST("/change-password", s.handler.Auth.ChangePassword)

		// Review routes
		protected.POST("/create-review-post",
			middleware.CoverUpload(s.cfg.UploadDir, s.cfg.MaxUploadSize),
			s.handler.Review.CreateReview)
		protected.GET("/reviews/top", s.handler.Review.GetTopReviews)
		protected.GET("/reviews/recent", s.handler.Review.GetRecentReviews)
		protected.GET("/reviews/mine", s.handler.Review.GetMyReviews)
		protected.DELETE("/reviews/:id", s.handler.Review.DeleteReview)

		// Comment routes
		protected.POST("/create-comment/:reviewId", s.handler.Comment.CreateComment)
		protected.GET("/comments/:reviewId", s.handler.Comment.GetComments)
		protected.GET("/count-comments/:reviewId", s.handler.Comment.CountComments)

		// Vote routes
		protected.POST("/vote/:reviewId", s.handler.Vote.CastVote)
		protected.GET("/vote/count/:reviewId", s.handler.Vote.CountVotes)
	}

	return r
}
