package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"shutter-pricing-service/internal/api"
	"shutter-pricing-service/internal/config"
	"shutter-pricing-service/internal/logger"
	"shutter-pricing-service/internal/schema"
	"shutter-pricing-service/internal/service"
	"shutter-pricing-service/internal/store"
)

const defaultAppName = "ShutterPricingService"

// catalogBackend is what main needs from either catalog source.
type catalogBackend struct {
	source  store.CatalogSource
	storer  store.CatalogStorer // nil for the file source
	pg      *store.PostgresStore
	healthy func(ctx context.Context) string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found or failed to load, relying on system environment")
	}

	// --- Configuration Loading ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Error loading configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("FATAL: Error initialising logger: %v", err)
	}
	defer appLogger.Sync()
	appLogger = appLogger.With("service", defaultAppName)
	appLogger.Info("configuration loaded", "app_env", cfg.AppEnv, "log_level", cfg.LogLevel, "catalog_source", cfg.Catalog.Source)

	// --- Schemas & Catalog ---
	schemas, err := schema.LoadDir(cfg.Schema.Dir)
	if err != nil {
		appLogger.Fatal("failed to load product schemas", "dir", cfg.Schema.Dir, "error", err)
	}
	appLogger.Info("product schemas loaded", "products", schemas.ProductIDs())

	backend, err := openCatalog(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("failed to open catalog", "error", err)
	}

	sessions := service.NewSessions(service.Config{
		Schemas:      schemas,
		Catalog:      backend.source,
		Logger:       appLogger.With("component", "sessions"),
		FetchTimeout: cfg.Session.FetchTimeout,
		MaxSessions:  cfg.Session.MaxSessions,
	})

	// --- Initialize API Handlers ---
	httpAPIHandler := api.NewHTTPHandler(backend.storer, sessions, appLogger.With("component", "http"))
	grpcAPIHandler := api.NewGRPCHandler(sessions, appLogger.With("component", "grpc"))

	// --- Setup & Start HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter)
	registerHealthCheck(httpRouter, backend, sessions)
	httpAPIHandler.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		appLogger.Info("HTTP server listening", "port", cfg.HttpServer.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server ListenAndServe error", "error", err)
		}
		appLogger.Info("HTTP server has stopped")
	}()

	// --- Setup & Start gRPC Server ---
	grpcServer := setupGRPCServer(appLogger, grpcAPIHandler)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		appLogger.Fatal("failed to listen for gRPC", "port", cfg.GrpcServer.Port, "error", err)
	}

	go func() {
		appLogger.Info("gRPC server listening", "port", cfg.GrpcServer.Port)
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Fatal("gRPC server Serve error", "error", err)
		}
		appLogger.Info("gRPC server has stopped")
	}()

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(appLogger, httpServer, grpcServer, backend.pg, shutdownComplete)

	<-shutdownComplete
	appLogger.Info("service shutdown sequence finished")
}

func openCatalog(cfg *config.Config, appLogger *logger.Logger) (*catalogBackend, error) {
	if cfg.Catalog.Source == config.SourceFile {
		fc, err := store.NewFileCatalog(cfg.Catalog.PricesFile, cfg.Catalog.AccessoriesFile)
		if err != nil {
			return nil, err
		}
		appLogger.Info("file catalog loaded", "prices", cfg.Catalog.PricesFile, "accessories", cfg.Catalog.AccessoriesFile)
		return &catalogBackend{
			source:  fc,
			healthy: func(context.Context) string { return "file" },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	appLogger.Info("database connection established", "host", cfg.Postgres.Host, "dbname", cfg.Postgres.DBName)

	pg := store.NewPostgresStore(db)
	return &catalogBackend{
		source: pg,
		storer: pg,
		pg:     pg,
		healthy: func(ctx context.Context) string {
			if err := pg.Ping(ctx); err != nil {
				appLogger.Warn("health check DB ping failed", "error", err)
				return "unhealthy"
			}
			return "healthy"
		},
	}, nil
}

func setupBaseMiddleware(router *chi.Mux) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
}

func registerHealthCheck(router *chi.Mux, backend *catalogBackend, sessions *service.Sessions) {
	router.Get("/api/v1/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK) // Always 200, but payload indicates detailed status
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "healthy",
			"serviceName": defaultAppName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"catalog":     backend.healthy(ctx),
			"sessions":    sessions.Len(),
		})
	})
}

func setupGRPCServer(appLogger *logger.Logger, grpcAPIHandler *api.GRPCHandler) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(api.UnaryLoggingInterceptor(appLogger.With("component", "grpc"))))

	api.RegisterPricingServiceServer(s, grpcAPIHandler)
	grpc_health_v1.RegisterHealthServer(s, health.NewServer())
	reflection.Register(s)
	appLogger.Info("gRPC services registered", "services", []string{api.PricingServiceName, "grpc.health.v1.Health"})

	return s
}

func waitForShutdown(
	appLogger *logger.Logger,
	httpServer *http.Server,
	grpcServer *grpc.Server,
	dbStore *store.PostgresStore, // nil for the file catalog
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-sigChan
	appLogger.Info("received signal, starting graceful shutdown", "signal", receivedSignal.String())

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("HTTP server graceful shutdown failed", "error", err)
	} else {
		appLogger.Info("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		appLogger.Info("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		appLogger.Warn("gRPC server graceful shutdown timed out, forcing stop", "error", shutdownCtx.Err())
		grpcServer.Stop()
	}

	if dbStore != nil {
		if err := dbStore.Close(); err != nil {
			appLogger.Warn("error closing database connection", "error", err)
		}
	}

	appLogger.Info("graceful shutdown sequence completed")
}
