package router

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/bitbrkr/backend/internal/events"
	"github.com/bitbrkr/backend/internal/handlers"
	"github.com/bitbrkr/backend/internal/middleware"
	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects
// dependencies. firebaseAuthClient may be nil when Firebase identity
// is not configured.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, publisher events.Publisher) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}, &models.Follow{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database("bitbrkr")
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	threadRepo := repositories.NewMongoThreadRepository(mongoDB)

	// The unique index on the normalized participant pair backs
	// thread deduplication; it must exist before traffic.
	if err := threadRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create thread indexes: %v", err)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(pgdb, mgClient))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo, postRepo, followRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, publisher)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	likeHandler := handlers.NewLikeHandler(postRepo, publisher)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	commentHandler := handlers.NewCommentHandler(postRepo, publisher)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	threadHandler := handlers.NewThreadHandler(threadRepo, userRepo, publisher)
	threadHandler.RegisterThreadRoutes(api)
	log.Println("Thread routes configured.")

	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, followRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	notificationHandler := handlers.NewNotificationHandler(postRepo, followRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
