package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fencetrack/fencetrack/internal/api"
	"github.com/fencetrack/fencetrack/internal/config"
	"github.com/fencetrack/fencetrack/internal/fetch"
	"github.com/fencetrack/fencetrack/internal/repository/postgres"
	"github.com/fencetrack/fencetrack/internal/service"
	"github.com/fencetrack/fencetrack/internal/websocket"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)
	uow := postgres.NewUnitOfWork(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	fetcher := fetch.NewHTTPFetcher(cfg.FetcherBaseURL, cfg.FetchTimeout)
	services := service.NewServices(repos, uow, fetcher, hub, cfg)

	// Start the periodic re-collection scheduler
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if err := services.Scheduler.Start(schedCtx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	// Initialize router
	router := api.NewRouter(services, hub)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	schedCancel()
	if err := services.Scheduler.Stop(); err != nil {
		log.Printf("scheduler shutdown: %v", err)
	}
	hub.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
