package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/proshka/feedback-bot/internal/app"
	"github.com/proshka/feedback-bot/internal/server"
)

func main() {
	godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize application
	application, err := app.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Log startup information
	application.LogStartupInfo()

	// Liveness endpoint next to the poll loop
	srv := server.New(application.Config.Port)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	application.Run(ctx)
	log.Printf("Shutting down")
}
