package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreybb/roster/api"
	"github.com/coreybb/roster/cache"
	"github.com/coreybb/roster/datastore"
	"github.com/coreybb/roster/registration"
	rh "github.com/coreybb/roster/route-handlers"
	"github.com/coreybb/roster/validation"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPort         = "8080"
	defaultDatabaseURL  = "user=postgres password=password dbname=roster host=localhost port=5432 sslmode=disable"
	defaultRedisAddr    = "localhost:6379"
	defaultValidatorURL = "http://localhost:8081/validate"
	dbPingTimeout       = 5 * time.Second
	migrationTimeout    = 30 * time.Second
	shutdownTimeout     = 15 * time.Second
	dbMaxOpenConns      = 25
	dbMaxIdleConns      = 25
	dbConnMaxLifetime   = 5 * time.Minute
)

type config struct {
	port         string
	databaseURL  string
	redisAddr    string
	validatorURL string
}

func main() {
	cfg := loadConfig()

	db, err := setupDatabase(cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	redisClient, err := setupCache(cfg.redisAddr)
	if err != nil {
		log.Fatalf("Cache setup failed: %v", err)
	}
	defer redisClient.Close()

	userRepo := datastore.NewUserRepository(db)
	userCache := cache.NewUserCache(redisClient)
	validatorClient := validation.NewClient(cfg.validatorURL, http.DefaultClient)

	registrationService := registration.NewService(validatorClient, userRepo, userCache)

	userHandler := rh.NewUserHandler(registrationService)

	apiRouter := api.SetupRoutes(userHandler)

	mainRouter := chi.NewRouter()
	mainRouter.Mount("/", apiRouter)

	startServer(cfg.port, mainRouter)
}

func loadConfig() config {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = defaultRedisAddr
		log.Println("WARNING: REDIS_ADDR not set, using default local address.")
	}

	validatorURL := os.Getenv("VALIDATOR_BASE_URL")
	if validatorURL == "" {
		validatorURL = defaultValidatorURL
		log.Println("WARNING: VALIDATOR_BASE_URL not set, using default local address.")
	}

	return config{
		port:         port,
		databaseURL:  dbURL,
		redisAddr:    redisAddr,
		validatorURL: validatorURL,
	}
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationCtx, cancelMigration := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancelMigration()

	if err = datastore.RunMigrations(migrationCtx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Database connection successful")
	return db, nil
}

func setupCache(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Println("Cache connection successful")
	return client, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
