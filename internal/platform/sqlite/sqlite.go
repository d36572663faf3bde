package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the sqlite database at path and verifies connectivity.
func Connect(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOrNil opens sqlite at path and returns the DB plus a cleanup
// function. When the path is empty or the open fails, it logs and returns
// nil with a no-op cleanup so callers can fall back to in-memory stores.
func ConnectOrNil(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, func()) {
	if strings.TrimSpace(path) == "" {
		if logger != nil {
			logger.Warn("sqlite path not set, falling back to in-memory metadata store")
		}
		return nil, func() {}
	}
	db, err := Connect(ctx, path)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to open sqlite, falling back to in-memory metadata store", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("sqlite connection established", slog.String("path", path))
	}
	return db, func() { _ = db.Close() }
}
