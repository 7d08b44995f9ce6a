package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mallindex/internal/config"
	dbValkey "github.com/kailas-cloud/mallindex/internal/db/valkey"
	logpkg "github.com/kailas-cloud/mallindex/internal/logger"
	"github.com/kailas-cloud/mallindex/internal/metrics"
	categoryrepo "github.com/kailas-cloud/mallindex/internal/repository/category"
	entryrepo "github.com/kailas-cloud/mallindex/internal/repository/entry"
	"github.com/kailas-cloud/mallindex/internal/repository/registry"
	chiTransport "github.com/kailas-cloud/mallindex/internal/transport/chi"
	kafkaTransport "github.com/kailas-cloud/mallindex/internal/transport/kafka"
	"github.com/kailas-cloud/mallindex/internal/usecase/category"
	entryuc "github.com/kailas-cloud/mallindex/internal/usecase/entry"
	healthuc "github.com/kailas-cloud/mallindex/internal/usecase/health"
	"github.com/kailas-cloud/mallindex/internal/usecase/indexing"
	"github.com/kailas-cloud/mallindex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mallindex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Strings("sinks", cfg.Indexing.Sinks),
	)

	// Valkey and Redis share the rueidis store.
	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterIndexingMetrics()

	// Registries and builder
	reg := registry.FromConfig(cfg.Catalog)
	builder := entryuc.NewBuilder(reg, reg, logger)

	// Sinks: valkey first so a failed primary write never reaches the stream.
	entries := entryrepo.New(store, cfg.Storage.KeyPrefix)
	sinks := []indexing.Sink{entries}

	var broker healthuc.BrokerChecker
	if cfg.Indexing.HasSink(config.SinkKafka) {
		cl, err := kafkaTransport.NewClient(ctx, kafkaTransport.Config{
			SeedBrokers: cfg.Kafka.SeedBrokers,
			Topic:       cfg.Kafka.Topic,
		})
		if err != nil {
			logger.Fatal("Kafka not ready", zap.Error(err))
		}
		kafkaSink := kafkaTransport.NewSink(cl, logger)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		broker = kafkaSink
		logger.Info("Kafka sink enabled",
			zap.Strings("seed_brokers", cfg.Kafka.SeedBrokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	indexSvc := indexing.New(builder, entries, sinks, logger).
		WithConcurrency(cfg.Indexing.Concurrency).
		WithMaxBatchSize(cfg.Indexing.MaxBatchSize)

	// Category tree
	categories := categoryrepo.New(store, cfg.Storage.KeyPrefix)
	resolver := category.NewResolver(categories, logger)

	healthSvc := healthuc.New(store, broker)

	server := chiTransport.NewServer(indexSvc, resolver, categories, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
