package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/securecipher/bank-backend/internal/api/handlers"
	"github.com/securecipher/bank-backend/internal/config"
	"github.com/securecipher/bank-backend/internal/ledger"
	"github.com/securecipher/bank-backend/internal/metrics"
	"github.com/securecipher/bank-backend/internal/middleware"
	repo "github.com/securecipher/bank-backend/internal/repository"
	"github.com/securecipher/bank-backend/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	Users      *services.UserService
	Accounts   *services.AccountService
	Engine     *ledger.Engine
	AuditLogs  repo.AuditLogs
	AuthMW     *middleware.AuthMiddleware
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	authH := handlers.NewAuthHandler(d.Users)
	accountsH := handlers.NewAccountsHandler(d.Accounts)
	transfersH := handlers.NewTransfersHandler(d.Engine)
	auditH := handlers.NewAuditHandler(d.AuditLogs)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(d.AuthMW.Auth)

			r.Post("/auth/set-pin", authH.SetPIN)

			r.Post("/accounts", accountsH.Open)
			r.Get("/accounts", accountsH.List)
			r.Get("/accounts/{id}/balance", accountsH.Balance)
			r.Get("/accounts/{id}/transactions", accountsH.Transactions)

			r.Post("/transfers", transfersH.Create)
			r.Get("/transactions/{id}", accountsH.Transaction)

			r.With(middleware.RequireRole("admin")).Get("/audit", auditH.List)
		})
	})

	return r
}
