/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the punch clock server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment config
  2. Parse command-line flags (flags override environment)
  3. Initialize SQLite store, bootstrap the first admin account
  4. Create API handler and router
  5. Start server with graceful shutdown

CONFIGURATION:
  PUNCHCLOCK_ADDR         Listen address (default :8080)
  PUNCHCLOCK_DB_PATH      SQLite database path (default punchclock.db)
  PUNCHCLOCK_JWT_SECRET   Token signing secret (required outside dev)
  PUNCHCLOCK_ADMIN_PASSWORD  Password for the bootstrapped admin account

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait for active requests
  (30s timeout), close the database, exit.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/punchclock/api"
	"github.com/warp/punchclock/log"
	"github.com/warp/punchclock/payroll"
	"github.com/warp/punchclock/store/sqlite"
)

type Config struct {
	Addr          string `env:"PUNCHCLOCK_ADDR, default=:8080"`
	DBPath        string `env:"PUNCHCLOCK_DB_PATH, default=punchclock.db"`
	JWTSecret     string `env:"PUNCHCLOCK_JWT_SECRET, default=dev-secret-change-me"`
	AdminPassword string `env:"PUNCHCLOCK_ADMIN_PASSWORD, default=admin"`
}

func main() {
	logger := log.New("punchclock")

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Addr, "listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path (\":memory:\" for in-memory)")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := bootstrapAdmin(context.Background(), store, cfg.AdminPassword); err != nil {
		logger.Error("failed to bootstrap admin account", "err", err)
		os.Exit(1)
	}

	handler := api.NewHandler(store, []byte(cfg.JWTSecret), logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", *addr, "db", *dbPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "err", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// bootstrapAdmin creates the default admin account when no accounts exist
// yet, so a fresh deployment is reachable.
func bootstrapAdmin(ctx context.Context, store payroll.Storage, password string) error {
	accounts, err := store.GetAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return store.UpsertAccount(ctx, payroll.Account{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         payroll.RoleAdmin,
	})
}
