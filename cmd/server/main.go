package main

import (
	"context"
	"log"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/bitbrkr/backend/internal/events"
	"github.com/bitbrkr/backend/internal/observability"
	"github.com/bitbrkr/backend/internal/router"
	"github.com/bitbrkr/backend/pkg/config"
	"github.com/bitbrkr/backend/pkg/firebase"
	"github.com/bitbrkr/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Firebase identity is optional; local JWT auth works without it.
	var firebaseAuthClient *fbauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		ctx := context.Background()
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	}

	// Event sink for real-time delivery; noop when AMQP is unset.
	publisher := events.NewPublisher(cfg.AmqpURL, cfg.AmqpExchange)
	defer publisher.Close()

	// Metrics endpoint on its own port
	observability.ServeMetrics(cfg.MetricsPort)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseAuthClient, publisher)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
