package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/app/api"
	kitchenfs "github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/persistence/fs"
	kitchensqlite "github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/persistence/sqlite"
	platformsqlite "github.com/MR-MonkeyRay/emojikitchen/internal/platform/sqlite"
)

// cache-purger removes expired notfound markers and stale combination
// metadata. The read path already expires lazily; this keeps the cache
// directory and the metadata database from accumulating dead entries.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := kitchenfs.New(cfg.CacheDir, cfg.NotFoundExpiry)
	if err != nil {
		log.Fatalf("failed to open cache store: %v", err)
	}
	markers, err := store.PurgeExpiredNotFound(ctx)
	if err != nil {
		log.Fatalf("failed to purge notfound markers: %v", err)
	}
	log.Printf("purged %d expired notfound markers", markers)

	db, cleanup := platformsqlite.ConnectOrNil(ctx, cfg.SQLitePath, logger)
	defer cleanup()
	if db == nil {
		return
	}
	metadata, err := kitchensqlite.NewMetadataStore(db)
	if err != nil {
		log.Fatalf("failed to open metadata store: %v", err)
	}
	records, err := metadata.PurgeFetchedBefore(ctx, time.Now().Add(-cfg.MetadataExpiry))
	if err != nil {
		log.Fatalf("failed to purge metadata: %v", err)
	}
	log.Printf("purged metadata for %d codepoints", records)
}
