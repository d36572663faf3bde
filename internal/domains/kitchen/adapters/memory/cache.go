package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

var _ ports.CacheStore = (*CacheStore)(nil)

// CacheStore is an in-memory cache implementation for development and tests.
type CacheStore struct {
	mu       sync.RWMutex
	images   map[domain.PairKey]ports.CachedImage
	notfound map[domain.PairKey]ports.NotFoundMarker
	expiry   time.Duration
	now      func() time.Time
}

// NewCacheStore constructs an empty store with the given notfound expiry.
func NewCacheStore(notfoundExpiry time.Duration) *CacheStore {
	return &CacheStore{
		images:   map[domain.PairKey]ports.CachedImage{},
		notfound: map[domain.PairKey]ports.NotFoundMarker{},
		expiry:   notfoundExpiry,
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *CacheStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// GetImage returns the cached image, or nil when absent.
func (s *CacheStore) GetImage(_ context.Context, key domain.PairKey) (*ports.CachedImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.images[key]
	if !ok {
		return nil, nil
	}
	copy := entry
	return &copy, nil
}

// PutImage stores the image and clears any notfound marker for the key.
func (s *CacheStore) PutImage(_ context.Context, key domain.PairKey, image []byte, source domain.CandidateDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[key] = ports.CachedImage{Bytes: append([]byte(nil), image...), SourceDate: source}
	delete(s.notfound, key)
	return nil
}

// GetNotFound returns the marker, removing it lazily when expired.
func (s *CacheStore) GetNotFound(_ context.Context, key domain.PairKey) (*ports.NotFoundMarker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marker, ok := s.notfound[key]
	if !ok {
		return nil, nil
	}
	if s.expiry > 0 && s.now().Sub(marker.CreatedAt) > s.expiry {
		delete(s.notfound, key)
		return nil, nil
	}
	copy := marker
	return &copy, nil
}

// PutNotFound records a negative result for the probed dates.
func (s *CacheStore) PutNotFound(_ context.Context, key domain.PairKey, probed []domain.CandidateDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notfound[key] = ports.NotFoundMarker{
		ProbedDates: append([]domain.CandidateDate(nil), probed...),
		CreatedAt:   s.now(),
	}
	return nil
}

// DeleteNotFound drops a marker; removing an absent key is a no-op.
func (s *CacheStore) DeleteNotFound(_ context.Context, key domain.PairKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notfound, key)
	return nil
}
