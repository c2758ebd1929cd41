package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"multistop-route-service/internal/adapters/counters"
	"multistop-route-service/internal/adapters/directions"
	"multistop-route-service/internal/adapters/repositories"
	"multistop-route-service/internal/api"
	"multistop-route-service/internal/api/handlers"
	"multistop-route-service/internal/config"
	"multistop-route-service/internal/platform/db"
	"multistop-route-service/internal/platform/logging"
	"multistop-route-service/internal/ports"
	"multistop-route-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (directions HTTP, Postgres, Valkey) behind ports
// and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := directions.NewGoogleDirectionsProvider(
		cfg.Provider.APIKey,
		cfg.Provider.BaseURL,
		cfg.Provider.TimeoutDuration(),
	)
	if err != nil {
		return err
	}
	optimizer := services.NewRouteOptimizer(provider)

	checks := map[string]handlers.HealthCheck{}

	// Route history is optional; the optimizer works without it.
	var history ports.RouteHistoryRepository
	if cfg.Database.URL != "" {
		conn, err := openHistoryDB(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		history = repositories.NewPostgresRouteHistoryRepository(conn)
		checks["database"] = conn.PingContext
	} else {
		slog.Warn("database.url not set; route history disabled")
	}

	var usage ports.UsageCounter
	if cfg.Valkey.Addr != "" {
		counter, err := counters.NewValkeyUsageCounter(cfg.Valkey.Addr)
		if err != nil {
			return err
		}
		defer counter.Close()

		usage = counter
		checks["valkey"] = counter.Ping
	} else {
		slog.Warn("valkey.addr not set; usage counters disabled")
	}

	routeHandler := handlers.NewRouteHandler(optimizer, history, usage, cfg.API.MaxStops)
	router := api.NewRouter(routeHandler, &handlers.HealthHandler{Checks: checks})

	// Write timeout leaves room for the provider timeout.
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func openHistoryDB(ctx context.Context, url string) (*sql.DB, error) {
	conn, err := db.Open(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := repositories.InitSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open history db: %w", err)
	}

	return conn, nil
}
