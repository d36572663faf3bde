package application

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

// Deps carries the collaborators the resolver composes.
type Deps struct {
	Cache      ports.CacheStore
	Candidates ports.CandidateSource
	Prober     *Prober
	// DatePersistence is optional; when set, candidate-list growth is saved
	// so the next boot starts from the enriched list.
	DatePersistence ports.DatePersistence
	// DateSource is optional; RefreshDates becomes a no-op merge without it.
	DateSource ports.DateSource
	// Metadata store/source are optional; without them resolution skips the
	// exact-date phase and goes straight to the probe window.
	Metadata       ports.MetadataStore
	MetadataSource ports.MetadataSource
}

// Option configures the service.
type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxProbeDates caps how many candidate dates one resolution may probe.
func WithMaxProbeDates(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxProbeDates = n
		}
	}
}

// WithMetadataExpiry sets how long fetched combination metadata stays fresh.
func WithMetadataExpiry(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.metadataExpiry = d
		}
	}
}

// Service resolves emoji pairs to composite images. It owns no state beyond
// its collaborators and is safe for concurrent use.
type Service struct {
	deps           Deps
	logger         *slog.Logger
	now            func() time.Time
	maxProbeDates  int
	metadataExpiry time.Duration
	group          singleflight.Group
}

// NewService wires the resolver with its dependencies.
func NewService(deps Deps, opts ...Option) *Service {
	s := &Service{
		deps:           deps,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:            time.Now,
		maxProbeDates:  10,
		metadataExpiry: 7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Resolve returns the composite image for the pair. Concurrent calls for the
// same pair key collapse into a single resolution run.
func (s *Service) Resolve(ctx context.Context, input ports.ResolveInput) (*ports.Resolution, error) {
	key := input.Pair.Key()
	// The run is shared by every concurrent caller for the key, so it must not
	// die with whichever caller happened to start it.
	runCtx := context.WithoutCancel(ctx)
	result, err, _ := s.group.Do(string(key), func() (any, error) {
		return s.resolve(runCtx, input.Pair, key)
	})
	if err != nil {
		return nil, err
	}
	return result.(*ports.Resolution), nil
}

func (s *Service) resolve(ctx context.Context, pair domain.EmojiPair, key domain.PairKey) (*ports.Resolution, error) {
	if cached, err := s.deps.Cache.GetImage(ctx, key); err == nil && cached != nil {
		return &ports.Resolution{Key: key, Image: cached.Bytes, SourceDate: cached.SourceDate, FromCache: true}, nil
	} else if err != nil {
		s.logger.Warn("cache read failed", slog.String("key", string(key)), slog.String("error", err.Error()))
	}

	snapshot := s.deps.Candidates.Snapshot()
	if marker, err := s.deps.Cache.GetNotFound(ctx, key); err == nil && marker != nil {
		if domain.CoversAll(marker.ProbedDates, snapshot) {
			return nil, ErrNoCombination
		}
		// The candidate list has grown past the marker's coverage; the
		// negative result is no longer authoritative.
		_ = s.deps.Cache.DeleteNotFound(ctx, key)
	}

	if date, ok := s.exactDate(ctx, pair); ok {
		report := s.deps.Prober.Probe(ctx, pair, []domain.CandidateDate{date})
		if report.Status == StatusFound {
			return s.persistFound(ctx, key, report)
		}
	}
	// Re-take the snapshot: the metadata phase may have merged new dates even
	// on a lookup miss, and any marker written below must cover the list as
	// known now.
	snapshot = s.deps.Candidates.Snapshot()

	window := snapshot
	if len(window) > s.maxProbeDates {
		window = window[:s.maxProbeDates]
	}
	report := s.deps.Prober.Probe(ctx, pair, window)
	switch report.Status {
	case StatusFound:
		return s.persistFound(ctx, key, report)
	case StatusCleanMiss:
		if domain.CoversAll(report.Probed, snapshot) {
			if err := s.deps.Cache.PutNotFound(ctx, key, report.Probed); err != nil {
				s.logger.Warn("write notfound marker failed", slog.String("key", string(key)), slog.String("error", err.Error()))
			}
			s.logger.Info("combination does not exist", slog.String("key", string(key)))
		} else {
			s.logger.Info("probe window exhausted without full coverage",
				slog.String("key", string(key)),
				slog.Int("probed", len(report.Probed)),
				slog.Int("known", len(snapshot)))
		}
		return nil, ErrNoCombination
	case StatusUnreachable:
		s.logger.Warn("CDN unreachable during probe", slog.String("key", string(key)))
		return nil, ErrUpstream
	default:
		s.logger.Info("probe run inconclusive, cache left absent", slog.String("key", string(key)))
		return nil, ErrNoCombination
	}
}

func (s *Service) persistFound(ctx context.Context, key domain.PairKey, report ProbeReport) (*ports.Resolution, error) {
	if err := s.deps.Cache.PutImage(ctx, key, report.Image, report.SourceDate); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", string(key)), slog.String("error", err.Error()))
	}
	return &ports.Resolution{Key: key, Image: report.Image, SourceDate: report.SourceDate}, nil
}

// RefreshDates pulls the remote date list once, merges it, and persists the
// grown list. Failures leave the previous snapshot untouched.
func (s *Service) RefreshDates(ctx context.Context) (int, error) {
	if s.deps.DateSource == nil {
		return len(s.deps.Candidates.Snapshot()), nil
	}
	dates, err := s.deps.DateSource.FetchDates(ctx)
	if err != nil {
		return len(s.deps.Candidates.Snapshot()), err
	}
	if added := s.deps.Candidates.Merge(dates...); added > 0 {
		s.logger.Info("candidate dates updated", slog.Int("added", added))
		s.saveDates(ctx)
	}
	return len(s.deps.Candidates.Snapshot()), nil
}

// CandidateDates returns the current snapshot, newest first.
func (s *Service) CandidateDates(context.Context) []domain.CandidateDate {
	return s.deps.Candidates.Snapshot()
}

func (s *Service) saveDates(ctx context.Context) {
	if s.deps.DatePersistence == nil {
		return
	}
	if err := s.deps.DatePersistence.SaveDates(ctx, s.deps.Candidates.Snapshot()); err != nil {
		s.logger.Warn("persist candidate dates failed", slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
