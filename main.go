package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dferrans/itemstash-be/internal/api"
	"github.com/dferrans/itemstash-be/internal/config"
	"github.com/dferrans/itemstash-be/internal/database"
	"github.com/dferrans/itemstash-be/internal/logger"
	"github.com/dferrans/itemstash-be/internal/monitoring"
	"github.com/dferrans/itemstash-be/internal/services"
	"github.com/dferrans/itemstash-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init()

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up WebSocket Hub for the activity feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, eventService)
	itemService := services.NewItemService(db, eventService, hub)

	// Set up and run the background event retention sweeper
	sweeper := monitoring.NewRetentionSweeper(eventService, time.Duration(cfg.EventRetentionDays)*24*time.Hour)
	sweeper.Run()

	// Set up router
	router := api.NewRouter(hub, itemService, userService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
