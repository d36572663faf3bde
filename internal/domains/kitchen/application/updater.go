package application

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

// DateUpdater periodically refreshes the candidate-date list through the
// service. Fetch failures are logged and swallowed: staleness only costs
// freshness, never resolution.
type DateUpdater struct {
	service  ports.Service
	interval time.Duration
	logger   *slog.Logger
}

// NewDateUpdater wires a background updater.
func NewDateUpdater(service ports.Service, interval time.Duration, logger *slog.Logger) *DateUpdater {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &DateUpdater{service: service, interval: interval, logger: logger}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
func (u *DateUpdater) Run(ctx context.Context) {
	u.refresh(ctx)
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.refresh(ctx)
		}
	}
}

func (u *DateUpdater) refresh(ctx context.Context) {
	size, err := u.service.RefreshDates(ctx)
	if err != nil {
		u.logger.Warn("remote date refresh failed", slog.String("error", err.Error()))
		return
	}
	u.logger.Info("candidate date list refreshed", slog.Int("size", size))
}
