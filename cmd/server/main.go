package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rowin21/splitledger/internal/auth"
	"github.com/rowin21/splitledger/internal/config"
	"github.com/rowin21/splitledger/internal/ledger"
	"github.com/rowin21/splitledger/internal/server"
	"github.com/rowin21/splitledger/internal/service"
	"github.com/rowin21/splitledger/internal/storage/sqlite"
	"github.com/rowin21/splitledger/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	recalc := ledger.NewRecalculator(store)

	handlers := &server.Handlers{
		Auth:        service.NewAuthService(authenticator, jwtManager, slog.Default()),
		Groups:      service.NewGroupService(store),
		Expenses:    service.NewExpenseService(store, recalc),
		Settlements: service.NewSettlementService(store),
	}

	router := server.NewRouter(handlers, jwtManager)

	// h2c allows HTTP/2 without TLS behind a terminating proxy.
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	go func() {
		slog.Info("Server starting", "address", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
