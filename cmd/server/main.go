package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamhub.backend/internal/config"
	"teamhub.backend/internal/infrastructure/audit"
	"teamhub.backend/internal/infrastructure/datasources"
	"teamhub.backend/internal/infrastructure/jobs"
	"teamhub.backend/internal/infrastructure/repositories"
	"teamhub.backend/internal/interfaces/http/handlers"
	"teamhub.backend/internal/interfaces/http/middleware"
	"teamhub.backend/internal/usecases"
	"teamhub.backend/pkg/jwt"
	"teamhub.backend/pkg/logger"
	"teamhub.backend/pkg/metrics"
	"teamhub.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = datasources.Open
	migrateDB  = datasources.Migrate
	runServer  = func(srv *http.Server) error { return srv.ListenAndServe() }
	getStdDB   = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }

	notifyShutdown = func(parent context.Context) (context.Context, context.CancelFunc) {
		return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	}
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := migrateDB(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Database schema migrated")
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	registry := prometheus.NewRegistry()
	metrics.RegisterMetrics(registry)

	// Initialize repositories
	teamRepo := repositories.NewTeamRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	teamUsecase := usecases.NewTeamUsecase(teamRepo, membershipRepo, taskRepo, uow)
	membershipUsecase := usecases.NewMembershipUsecase(teamRepo, membershipRepo, userRepo, uow)
	teamQueryUsecase := usecases.NewTeamQueryUsecase(teamRepo, membershipRepo)

	dispatcher := audit.NewDispatcher(activityRepo, audit.NewRedisRetryQueue(cfg.Audit.QueueKey))

	// Initialize handlers
	teamHandler := handlers.NewTeamHandler(teamUsecase, teamQueryUsecase, dispatcher)
	membershipHandler := handlers.NewMembershipHandler(membershipUsecase, dispatcher)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	retryJob := jobs.NewActivityRetryJob(dispatcher, cfg.Audit.RetryInterval, cfg.Audit.BatchSize)
	go retryJob.Start(jobCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware("/health", "/metrics"))
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, registry)
	registerAPIV1Routes(r, routeDeps{
		teamHandler:       teamHandler,
		membershipHandler: membershipHandler,
		authMiddleware:    middleware.AuthMiddleware(jwtService),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	sigCtx, stopSignals := notifyShutdown(ctx)
	defer stopSignals()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-sigCtx.Done()
		logger.Info(ctx, "Shutting down server")
		retryJob.Stop()
		cancel()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "TeamHub backend starting", zap.String("port", cfg.Server.Port))
	serveErr := runServer(srv)

	// unblock the watcher when the server stopped on its own, then wait for the drain
	stopSignals()
	<-shutdownDone

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", serveErr)
	}
	logger.Info(ctx, "Server stopped")
	return nil
}
