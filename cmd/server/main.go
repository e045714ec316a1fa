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

	"medstore/backend/internal/config"
	"medstore/backend/internal/httpapi"
	"medstore/backend/internal/logger"
	"medstore/backend/internal/service"
	"medstore/backend/internal/store"
	"medstore/backend/internal/store/memory"
	pgstore "medstore/backend/internal/store/postgres"
	redisstore "medstore/backend/internal/store/redis"
	sqlitestore "medstore/backend/internal/store/sqlite"
)

func main() {
	cfg := config.Load()
	log := logger.Must(logger.New())
	defer func() { _ = log.Sync() }()

	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatal("invalid security configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshots, backend, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		log.Fatal("snapshot store unavailable", zap.String("backend", backend), zap.Error(err))
	}
	log.Info("snapshot store ready", zap.String("backend", backend))

	svc, err := service.New(ctx, snapshots, service.StoreInfo{
		Name:    cfg.StoreName,
		Address: cfg.StoreAddress,
		Phone:   cfg.StorePhone,
	}, logger.Named(log, "service"))
	if err != nil {
		log.Fatal("service init failed", zap.Error(err))
	}

	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute)
	for _, seed := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", cfg.AdminPassword, "admin"},
		{"pharmacist", cfg.PharmacistPassword, "pharmacist"},
	} {
		if err := auth.SeedUser(seed.username, seed.password, seed.role); err != nil {
			log.Warn("login disabled", zap.String("username", seed.username), zap.Error(err))
		}
	}

	api := httpapi.New(svc, auth, cfg.AllowedOrigin, logger.Named(log, "http"))

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("medstore backend listening", zap.String("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
	if err := snapshots.Close(); err != nil {
		log.Warn("close error", zap.Error(err))
	}

	log.Info("server stopped")
}

// openSnapshotStore picks the persistence backend: postgres when
// DATABASE_URL is set, else redis when REDIS_ADDR is set, else a local
// sqlite file. An explicitly configured but unreachable backend refuses
// to start rather than silently falling back. MEDSTORE_EPHEMERAL=1
// forces the in-memory store.
func openSnapshotStore(ctx context.Context, cfg config.Config) (store.SnapshotStore, string, error) {
	switch {
	case cfg.Ephemeral:
		return memory.New(), "memory", nil
	case cfg.DatabaseURL != "":
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, "postgres", err
		}
		return pg, "postgres", nil
	case cfg.RedisAddr != "":
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, "redis", err
		}
		return rs, "redis", nil
	default:
		sq, err := sqlitestore.New(cfg.SQLitePath)
		if err != nil {
			return nil, "sqlite", err
		}
		return sq, "sqlite", nil
	}
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.AdminPassword == "" && cfg.PharmacistPassword == "" {
		return fmt.Errorf("at least one of ADMIN_PASSWORD or PHARMACIST_PASSWORD must be set")
	}
	return nil
}
