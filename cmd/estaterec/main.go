package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/estaterec/internal/config"
	"github.com/kailas-cloud/estaterec/internal/db"
	"github.com/kailas-cloud/estaterec/internal/db/memory"
	dbRedis "github.com/kailas-cloud/estaterec/internal/db/redis"
	"github.com/kailas-cloud/estaterec/internal/db/sqldb"
	logpkg "github.com/kailas-cloud/estaterec/internal/logger"
	"github.com/kailas-cloud/estaterec/internal/metrics"
	feedbackrepo "github.com/kailas-cloud/estaterec/internal/repository/feedback"
	propertyrepo "github.com/kailas-cloud/estaterec/internal/repository/property"
	sessionrepo "github.com/kailas-cloud/estaterec/internal/repository/session"
	userrepo "github.com/kailas-cloud/estaterec/internal/repository/user"
	chiTransport "github.com/kailas-cloud/estaterec/internal/transport/chi"
	authuc "github.com/kailas-cloud/estaterec/internal/usecase/auth"
	feedbackuc "github.com/kailas-cloud/estaterec/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/estaterec/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/estaterec/internal/usecase/ingest"
	propertyuc "github.com/kailas-cloud/estaterec/internal/usecase/property"
	recommenduc "github.com/kailas-cloud/estaterec/internal/usecase/recommend"
	"github.com/kailas-cloud/estaterec/internal/version"
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

	logger.Info("Starting estaterec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("sessions_driver", cfg.Sessions.Driver),
	)

	metrics.Register()

	gdb, err := sqldb.Open(sqldb.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Logger:       logpkg.NewGormLogger(logger, time.Duration(cfg.Logging.SQLSlowMs)*time.Millisecond),
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = sqldb.Close(gdb) }()
	logger.Info("Connected to database")

	kv, err := openSessionStore(cfg.Sessions)
	if err != nil {
		logger.Fatal("Failed to create session store", zap.Error(err))
	}
	defer kv.Close()

	ctx := context.Background()
	if err := kv.WaitForReady(ctx, time.Duration(cfg.Sessions.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Session store not ready", zap.Error(err))
	}

	// Repositories
	users := userrepo.New(gdb)
	props := propertyrepo.New(gdb, cfg.Ingest.BatchSize)
	feedback := feedbackrepo.New(gdb)
	sessions := sessionrepo.New(kv)

	// Use cases
	tokens, err := authuc.NewTokenSigner(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("Invalid token secret", zap.Error(err))
	}
	authSvc := authuc.New(users, sessions, tokens, authuc.Config{
		SessionTTL: cfg.Auth.SessionTTL(),
		BcryptCost: cfg.Auth.BcryptCost,
	})
	ingestSvc := ingestuc.New(props)
	recommendSvc := recommenduc.New(props, feedback)
	feedbackSvc := feedbackuc.New(feedback)
	propertySvc := propertyuc.New(props)
	healthSvc := healthuc.New(sqldb.NewPinger(gdb), kv)

	if cfg.Ingest.SeedFile != "" {
		seedCtx := logpkg.ContextWithLogger(ctx, logger)
		if n, err := ingestSvc.LoadFile(seedCtx, cfg.Ingest.SeedFile); err != nil {
			logger.Error("Seed load failed, starting with existing data",
				zap.String("file", cfg.Ingest.SeedFile), zap.Error(err))
		} else {
			logger.Info("Seed loaded", zap.String("file", cfg.Ingest.SeedFile), zap.Int("properties", n))
		}
	}

	server := chiTransport.NewServer(chiTransport.Services{
		Auth:       authSvc,
		Ingest:     ingestSvc,
		Recommend:  recommendSvc,
		Feedback:   feedbackSvc,
		Properties: propertySvc,
		Health:     healthSvc,
	}, chiTransport.Options{
		CookieName:     cfg.Auth.CookieName,
		CookieSecure:   cfg.Auth.CookieSecure,
		MaxUploadBytes: cfg.Ingest.MaxUploadBytes(),
	}, logger)

	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		LoginRequests:  cfg.RateLimit.LoginRequests,
		LoginWindow:    time.Duration(cfg.RateLimit.LoginWindowSec) * time.Second,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openSessionStore picks the session backend by driver name.
func openSessionStore(cfg config.SessionsConfig) (db.KVStore, error) {
	switch cfg.Driver {
	case "memory", "":
		return memory.NewStore(time.Minute), nil
	case "valkey", "redis":
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Addrs,
			Username:   cfg.Username,
			Password:   cfg.Password,
			DB:         cfg.DB,
			Standalone: cfg.Standalone,
		})
	default:
		return nil, fmt.Errorf("unknown sessions driver %q", cfg.Driver)
	}
}
