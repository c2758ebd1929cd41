package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"multistop-route-service/internal/adapters/repositories"
	"multistop-route-service/internal/config"
	"multistop-route-service/internal/platform/db"
	"multistop-route-service/internal/platform/logging"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dbtool creates the route history schema.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	logging.Setup(config.Get("ROUTEPLANNER_LOG_LEVEL", "info"), "text")

	if err := run(); err != nil {
		slog.Error("dbtool failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	databaseURL := config.Get("ROUTEPLANNER_DATABASE_URL", os.Getenv("DATABASE_URL"))
	if strings.TrimSpace(databaseURL) == "" {
		return errors.New("ROUTEPLANNER_DATABASE_URL (or DATABASE_URL) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.Info("initializing route history schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	slog.Info("schema ready")

	return nil
}
