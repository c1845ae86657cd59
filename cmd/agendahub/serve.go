package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/agendahub/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/agendahub/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/agendahub/internal/adapter/driving/web"
	"github.com/ericfisherdev/agendahub/internal/application"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"secure_cookies", cfg.SecureCookies,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database and run migrations.
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(db)

	// 4. Wire adapters and seed first-run data.
	kv := sqliteadapter.NewKVRepo(db)
	if err := application.Seed(ctx, kv, slog.Default()); err != nil {
		return err
	}

	// 5. Create services.
	agendaSvc := application.NewAgendaService(kv, slog.Default())
	sessionSvc := application.NewSessionService(kv, slog.Default())

	// 6. Build the router: middleware first, then API and GUI routes.
	router := chi.NewRouter()
	httphandler.ApplyMiddleware(router, slog.Default())

	apiHandler := httphandler.NewHandler(db.Reader, agendaSvc, slog.Default())
	httphandler.RegisterAPIRoutes(router, apiHandler)

	webHandler := webhandler.NewHandler(agendaSvc, sessionSvc, cfg.SecureCookies, slog.Default())
	webhandler.RegisterRoutes(router, webHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	slog.Info("agendahub started", "listen_addr", cfg.ListenAddr, "version", version)

	// 7. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 8. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
