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

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/vitanav/wellness-engine/internal/adapters/cache"
	adapterHTTP "github.com/vitanav/wellness-engine/internal/adapters/handler/http"
	"github.com/vitanav/wellness-engine/internal/adapters/repository"
	"github.com/vitanav/wellness-engine/internal/core/domain"
	"github.com/vitanav/wellness-engine/internal/core/services"
	"github.com/vitanav/wellness-engine/internal/core/workers"
)

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := envOr("JWT_SECRET", "dev-secret-change-me")
	jwtIssuer := envOr("JWT_ISSUER", "wellness-engine")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisClient, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisClient = nil
	}

	userRepo := repository.NewPostgresUserRepository(db.DB)
	profileRepo := repository.NewPostgresProfileRepository(db)
	sampleRepo := repository.NewPostgresSampleRepository(db)
	summaryRepo := repository.NewPostgresSummaryRepository(db)
	taskRepo := repository.NewPostgresTaskRepository(db)

	var patternCache services.PatternCache
	if redisClient != nil {
		patternCache = cache.NewPatternCache(redisClient)
	}

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour, userRepo)
	activityService := services.NewActivityService(sampleRepo, summaryRepo, profileRepo, 0)
	patternService := services.NewPatternService(summaryRepo, taskRepo, patternCache)
	recommendationService := services.NewRecommendationService(profileRepo, taskRepo, summaryRepo, patternService, domain.DefaultCatalog)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	flushWorker := workers.NewFlushWorker(activityService, 0, 0)
	flushWorker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:           adapterHTTP.NewAuthHandler(authService, tokenService),
		ActivityHandler:       adapterHTTP.NewActivityHandler(activityService),
		PatternHandler:        adapterHTTP.NewPatternHandler(patternService),
		RecommendationHandler: adapterHTTP.NewRecommendationHandler(recommendationService, profileRepo),
		TokenService:          tokenService,
		DB:                    db,
		Redis:                 redisClient,
		StartTime:             startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Wellness Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	stopWorkers()

	log.Println("Server stopped gracefully.")
}
