package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/reelweek/backend/internal/push"
	"github.com/reelweek/backend/internal/router"
	"github.com/reelweek/backend/pkg/config"
	"github.com/reelweek/backend/pkg/firebase"
	"github.com/reelweek/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	sender := push.NewFCMSender(firebaseApp.MessagingClient)
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, sender)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
