package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docql/internal/config"
	"github.com/kailas-cloud/docql/internal/engine"
	logpkg "github.com/kailas-cloud/docql/internal/logger"
	"github.com/kailas-cloud/docql/internal/metrics"
	"github.com/kailas-cloud/docql/internal/observe"
	"github.com/kailas-cloud/docql/internal/store"
	storeMemory "github.com/kailas-cloud/docql/internal/store/memory"
	storeRedis "github.com/kailas-cloud/docql/internal/store/redis"
	chiTransport "github.com/kailas-cloud/docql/internal/transport/chi"
	collectionuc "github.com/kailas-cloud/docql/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/docql/internal/usecase/health"
	"github.com/kailas-cloud/docql/internal/usecase/querysvc"
	"github.com/kailas-cloud/docql/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docql server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Create the collection store based on driver
	var st store.CollectionStore
	switch cfg.Storage.Driver {
	case "memory":
		st = storeMemory.New()
	case "redis":
		rs, rerr := storeRedis.New(storeRedis.Config{
			Addrs:     cfg.Storage.Addrs,
			Username:  cfg.Storage.Username,
			Password:  cfg.Storage.Password,
			DB:        cfg.Storage.DB,
			KeyPrefix: cfg.Storage.KeyPrefix,
		})
		if rerr != nil {
			logger.Fatal("Failed to create redis store", zap.Error(rerr))
		}
		readiness := time.Duration(cfg.Storage.ReadinessTimeout) * time.Second
		if rerr := rs.WaitForReady(context.Background(), readiness); rerr != nil {
			logger.Fatal("Redis not ready", zap.Error(rerr))
		}
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Storage.Addrs))
		st = rs
	default:
		logger.Fatal("Unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}
	defer st.Close()

	// Register query metrics explicitly (no init())
	metrics.RegisterQueryMetrics()

	mode := engine.ModeLenient
	if cfg.Query.Strict {
		mode = engine.ModeStrict
	}
	eng := engine.New(mode, observe.NewZapObserver(logger))

	collSvc := collectionuc.New(st)
	querySvc := querysvc.New(st, eng).
		WithPagination(cfg.Query.DefaultPageSize, cfg.Query.MaxPageSize)
	healthSvc := healthuc.New(st)

	server := chiTransport.NewServer(collSvc, querySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

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
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// One canonical log line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
