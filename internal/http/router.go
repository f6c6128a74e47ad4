package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authzHandler "github.com/crisnabto/despesas/internal/http/authz"
	balanceHandler "github.com/crisnabto/despesas/internal/http/balance"
	expenseHandler "github.com/crisnabto/despesas/internal/http/expense"
	"github.com/crisnabto/despesas/internal/http/httpx"
	"github.com/crisnabto/despesas/internal/metrics"
)

func New(
	expenses *expenseHandler.Handler,
	account *balanceHandler.Handler,
	auth *authzHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(requestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
	}))

	router.Handle("/metrics", metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		r.Route("/auth", auth.AuthRoutes)
		r.Route("/admin", auth.AdminRoutes)

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			expenses.Routes(r)
		})

		r.Route("/account", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			account.Routes(r)
		})
	})

	return router
}

func health(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
