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

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/vibecut/autoeditor/pkg/validator"

	"github.com/vibecut/autoeditor/internal/adapter/handler"
	"github.com/vibecut/autoeditor/internal/adapter/repository"
	"github.com/vibecut/autoeditor/internal/domain/repositories"
	"github.com/vibecut/autoeditor/internal/infrastructure/cache"
	"github.com/vibecut/autoeditor/internal/infrastructure/database"
	httpmw "github.com/vibecut/autoeditor/internal/infrastructure/http/middleware"
	"github.com/vibecut/autoeditor/internal/infrastructure/storage"
	"github.com/vibecut/autoeditor/internal/usecase/jobs"
	"github.com/vibecut/autoeditor/internal/usecase/planner"
	pkgai "github.com/vibecut/autoeditor/pkg/ai"
	"github.com/vibecut/autoeditor/pkg/config"
	"github.com/vibecut/autoeditor/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate in CI/CD.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Feature-flag store: Redis when enabled, in-memory otherwise
	var flagStore repositories.FlagRepository
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		flagStore = cache.NewRedisFlagStore(redisClient)
	} else {
		log.Println("⚠️  Redis disabled, feature flags are per-instance only")
		flagStore = cache.NewMemoryFlagStore()
	}

	// Initialize object storage
	log.Println("📦 Connecting to object storage...")
	store, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	videoRepo := repository.NewVideoRepository(db)
	planRepo := repository.NewPlanRepository(db)
	planJobRepo := repository.NewPlanJobRepository(db)

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize planner with the model fallback ladder
	log.Println("🤖 Initializing planner...")
	localClient := pkgai.NewLocalClient(cfg.Planner.LocalEndpoint, cfg.Planner.LocalAuthHeader, cfg.Planner.LocalModel, cfg.Planner.ProbeTimeout)
	hostedClient := pkgai.NewHostedClient(cfg.Planner.HostedEndpoint, cfg.Planner.HostedAPIKey)
	ladder := planner.NewQueryLadder(cfg.Planner, localClient, hostedClient, logger)
	plannerService := planner.NewService(cfg.Planner, ladder, flagStore, logger)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	authMW := httpmw.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	planHandler := handler.NewPlanHandler(plannerService, planRepo, planJobRepo, videoRepo, logger)
	uploadHandler := handler.NewUploadHandler(videoRepo, store, int(cfg.Storage.PresignExpiry.Seconds()), logger)
	flagHandler := handler.NewFlagHandler(flagStore, logger)

	// Start the async plan-job worker
	log.Println("👷 Starting plan job worker...")
	worker := jobs.NewWorker(planJobRepo, planRepo, videoRepo, plannerService, logger)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go worker.Start(workerCtx)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, authMW, planHandler, uploadHandler, flagHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
