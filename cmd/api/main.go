package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/securecipher/bank-backend/internal/api"
	"github.com/securecipher/bank-backend/internal/auth"
	"github.com/securecipher/bank-backend/internal/config"
	"github.com/securecipher/bank-backend/internal/db"
	"github.com/securecipher/bank-backend/internal/ledger"
	"github.com/securecipher/bank-backend/internal/logger"
	"github.com/securecipher/bank-backend/internal/metrics"
	"github.com/securecipher/bank-backend/internal/middleware"
	"github.com/securecipher/bank-backend/internal/repository/postgres"
	"github.com/securecipher/bank-backend/internal/services"
	"github.com/securecipher/bank-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer,
		15*time.Minute, 7*24*time.Hour)

	engine := ledger.NewEngine(ledger.EngineDeps{
		Users:    repos.Users,
		Accounts: repos.Accounts,
		Txns:     repos.Transactions,
		Cats:     repos.Categories,
		Store:    repos.Ledger,
		Audit:    repos.AuditLogs,
		Verifier: services.NewPINVerifier(repos.Users),
		Guard:    ledger.NewGuard(),
		Pool:     wp,
		Log:      log,
	})

	userSvc := services.NewUserService(repos.Users, repos.AuditLogs, tm, wp)
	accountSvc := services.NewAccountService(repos.Accounts, repos.Transactions)

	r := api.NewRouter(api.RouterDeps{
		Cfg:       cfg,
		Users:     userSvc,
		Accounts:  accountSvc,
		Engine:    engine,
		AuditLogs: repos.AuditLogs,
		AuthMW:    middleware.NewAuthMiddleware(tm),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
