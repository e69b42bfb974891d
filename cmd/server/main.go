package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-va/internal/api"
	"smart-va/internal/config"
	"smart-va/internal/database"
	"smart-va/internal/services"
)

// closer is implemented by the durable stores
type closer interface {
	Close() error
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Environment: %s", cfg.Server.Environment)

	// Durable storage is optional; without it requests are kept in memory
	primary, closeStore := openPrimaryStore(cfg)
	if closeStore != nil {
		defer func() {
			if err := closeStore.Close(); err != nil {
				log.Printf("WARNING: [STORE] close failed: %v", err)
			}
		}()
	}
	store := services.NewFallbackStore(primary, services.NewMemoryStore())

	if primary != nil {
		monitor := services.NewStoreMonitor(store)
		if _, err := monitor.Schedule(services.DefaultMonitorSchedule); err != nil {
			log.Printf("WARNING: %v", err)
		} else {
			monitor.Start()
			defer monitor.Stop()
		}
	}

	// Chat responders: OpenAI when a key is configured, rules otherwise
	extractor := services.NewExtractor()
	var primaryResponder services.Responder
	if aiService := services.NewAIService(cfg.OpenAI); aiService != nil {
		log.Printf("OpenAI API key found, chat uses %s", cfg.OpenAI.Model)
		primaryResponder = aiService
	} else {
		log.Printf("WARNING: OpenAI API key not found, chat uses the rule-based extractor")
	}
	chatService := services.NewChatService(primaryResponder, extractor, cfg.OpenAI.Timeout)

	// Email and PDF receipts
	pdfService := services.NewPDFService()
	var emailService *services.EmailService
	if cfg.Email.Enabled && cfg.Email.APIKey != "" {
		emailService = services.NewEmailService(cfg.Email, pdfService)
		log.Printf("Confirmation emails enabled (from %s)", cfg.Email.FromEmail)
	} else {
		log.Printf("Confirmation emails disabled")
	}

	var jwtService *services.JWTService
	if cfg.Admin.JWTSecret != "" {
		jwtService = services.NewJWTService(cfg.Admin.JWTSecret)
		log.Printf("[AUTH] Admin endpoints require a bearer token")
	} else {
		log.Printf("WARNING: [AUTH] ADMIN_JWT_SECRET not set, admin endpoints are open")
	}

	handlers := api.NewHandlers(store, chatService, emailService, pdfService, cfg.Server.IsDevelopment())
	router := api.SetupRoutes(handlers, cfg.Server.FrontendURL, jwtService)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s (storage: %s)", addr, store.Name())
		log.Printf("Health check: http://%s/api/health", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("ERROR: Server shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// openPrimaryStore connects MongoDB when configured, then SQLite. A failed
// connection is logged and the next option tried.
func openPrimaryStore(cfg *config.Config) (services.TaskStore, closer) {
	if cfg.MongoDB.Configured() {
		log.Printf("Initializing MongoDB connection (Host: %s, Port: %s, Database: %s)",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
		mongoClient, err := database.NewMongoDBClient(cfg.MongoDB)
		if err == nil {
			log.Printf("Successfully connected to MongoDB")
			return mongoClient, mongoClient
		}
		log.Printf("WARNING: Failed to connect to MongoDB: %v", err)
	} else {
		log.Printf("MongoDB not configured (Host and URI are empty)")
	}

	if cfg.SQLite.Path != "" {
		sqliteStore, err := database.NewSQLiteStore(cfg.SQLite.Path)
		if err == nil {
			log.Printf("Using SQLite storage at %s", cfg.SQLite.Path)
			return sqliteStore, sqliteStore
		}
		log.Printf("WARNING: Failed to open SQLite at %s: %v", cfg.SQLite.Path, err)
	}

	log.Printf("WARNING: No durable storage available, using in-memory storage")
	return nil, nil
}
