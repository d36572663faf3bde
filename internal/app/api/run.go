package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/external/cdn"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/external/github"
	kitchenmemory "github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/memory"
	kitchenobs "github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/observability"
	kitchenfs "github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/persistence/fs"
	kitchensqlite "github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/persistence/sqlite"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/application"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
	platformobservability "github.com/MR-MonkeyRay/emojikitchen/internal/platform/observability"
	platformsqlite "github.com/MR-MonkeyRay/emojikitchen/internal/platform/sqlite"
)

// Run boots the kitchen HTTP API with observability, stores, the prober, and
// the background date updater wired.
func Run(ctx context.Context) error {
	const serviceName = "emojikitchen-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	cacheStore, err := kitchenfs.New(cfg.CacheDir, cfg.NotFoundExpiry)
	if err != nil {
		return fmt.Errorf("failed to initialize cache store: %w", err)
	}

	candidates := kitchenmemory.NewCandidateStore(cfg.ExtraDates...)
	if persisted, err := cacheStore.LoadDates(ctx); err != nil {
		logger.Warn("failed to load persisted dates", slog.String("error", err.Error()))
	} else if added := candidates.Merge(persisted...); added > 0 {
		logger.Info("persisted dates loaded", slog.Int("added", added))
	}

	metadataStore, metadataSource, cleanupMetadata := buildMetadata(ctx, cfg, logger)
	defer cleanupMetadata()

	httpClient := &http.Client{}
	urls := cdn.NewURLBuilder(cdn.ResolveBaseURL(cfg.CDNSource, cfg.CDNURL))
	fetcher := cdn.NewClient(httpClient, cfg.RequestTimeout)
	dateSource := github.NewClient(httpClient, github.ResolveProxyURL(cfg.GitHubProxySource, cfg.GitHubProxy), cfg.RequestTimeout)

	core := application.NewService(
		application.Deps{
			Cache:           cacheStore,
			Candidates:      candidates,
			Prober:          application.NewProber(fetcher, urls, int64(cfg.ProbeConcurrency)),
			DatePersistence: cacheStore,
			DateSource:      dateSource,
			Metadata:        metadataStore,
			MetadataSource:  metadataSource,
		},
		application.WithLogger(logger),
		application.WithMaxProbeDates(cfg.MaxProbeDates),
		application.WithMetadataExpiry(cfg.MetadataExpiry),
	)
	service := kitchenobs.New(
		core,
		kitchenobs.WithLogger(logger),
		kitchenobs.WithTracer(instruments.Tracer("internal.domains.kitchen.application")),
		kitchenobs.WithMeter(instruments.Meter("internal.domains.kitchen.application")),
	)

	updaterCtx, stopUpdater := context.WithCancel(ctx)
	defer stopUpdater()
	go application.NewDateUpdater(service, cfg.DateRefreshInterval, logger).Run(updaterCtx)

	if cfg.ExtraDatesFile != "" {
		if err := watchExtraDates(updaterCtx, cfg.ExtraDatesFile, candidates, logger); err != nil {
			logger.Warn("extra dates watch unavailable", slog.String("path", cfg.ExtraDatesFile), slog.String("error", err.Error()))
		}
	}

	router := NewRouter(service, otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("kitchen API listening", slog.String("addr", addr), slog.Int("known_dates", len(candidates.Snapshot())))
	if err := router.Run(addr); err != nil {
		logger.Error("kitchen API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildMetadata wires the metadata store, preferring sqlite and falling back
// to memory when the database cannot be opened. A disabled metadata phase
// returns nils, which the service treats as "skip the exact-date phase".
func buildMetadata(ctx context.Context, cfg Config, logger *slog.Logger) (ports.MetadataStore, ports.MetadataSource, func()) {
	if cfg.MetadataDisabled {
		logger.Info("metadata phase disabled, probing only")
		return nil, nil, func() {}
	}
	source := github.NewClient(&http.Client{}, github.ResolveProxyURL(cfg.GitHubProxySource, cfg.GitHubProxy), cfg.RequestTimeout)

	db, cleanup := platformsqlite.ConnectOrNil(ctx, cfg.SQLitePath, logger)
	if db == nil {
		return kitchenmemory.NewMetadataStore(), source, cleanup
	}
	store, err := kitchensqlite.NewMetadataStore(db)
	if err != nil {
		logger.Warn("failed to initialize sqlite metadata store, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return kitchenmemory.NewMetadataStore(), source, func() {}
	}
	return store, source, cleanup
}
