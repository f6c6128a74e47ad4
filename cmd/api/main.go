package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/crisnabto/despesas/internal/authz"
	"github.com/crisnabto/despesas/internal/balance"
	"github.com/crisnabto/despesas/internal/config"
	"github.com/crisnabto/despesas/internal/expense"
	despesasHttp "github.com/crisnabto/despesas/internal/http"
	authzHandler "github.com/crisnabto/despesas/internal/http/authz"
	balanceHandler "github.com/crisnabto/despesas/internal/http/balance"
	expenseHandler "github.com/crisnabto/despesas/internal/http/expense"
	"github.com/crisnabto/despesas/internal/metrics"
	"github.com/crisnabto/despesas/internal/storage/fallback"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The handle serves the in-memory default until the selector resolves,
	// so startup never blocks on a slow database probe.
	handle := fallback.NewHandle()
	selector := fallback.NewSelector(fallback.Options{
		DatabaseURL:   cfg.DB.URL,
		SupabaseURL:   cfg.Supabase.URL,
		SupabaseKey:   cfg.Supabase.Key,
		RESTTimeout:   cfg.Probe.RESTTimeout,
		DirectTimeout: cfg.Probe.DirectTimeout,
	}, slog.Default())

	go func() {
		backend := selector.Run(ctx, handle)
		slog.Info("storage ready", "backend", backend)
	}()

	var (
		expenseService = expense.NewService(handle)
		balanceService = balance.NewService(handle, handle)
		gate           = authz.NewGate(cfg.Auth.AuthorizedEmails)
	)

	metrics.Init()

	router := despesasHttp.New(
		expenseHandler.NewHandler(expenseService),
		balanceHandler.NewHandler(balanceService),
		authzHandler.NewHandler(gate),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", cfg.App.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
