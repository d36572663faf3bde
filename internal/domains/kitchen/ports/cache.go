package ports

import (
	"context"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

// CachedImage is a terminal cache entry: the resolved composite plus the
// generation date it was found under.
type CachedImage struct {
	Bytes      []byte
	SourceDate domain.CandidateDate
}

// NotFoundMarker records a negative result together with the exact dates that
// were probed to establish it. The marker only stays authoritative while its
// probed set still covers the current candidate snapshot.
type NotFoundMarker struct {
	ProbedDates []domain.CandidateDate
	CreatedAt   time.Time
}

// CacheStore persists resolution outcomes per pair key. Implementations must
// make every write atomic at the storage layer: a concurrent reader observes
// either the previous complete entry or the new complete entry, never a
// partial one. Corrupt entries are reported as absent, not as errors.
type CacheStore interface {
	// GetImage returns the cached image, or (nil, nil) when absent.
	GetImage(ctx context.Context, key domain.PairKey) (*CachedImage, error)
	// PutImage stores the image and drops any notfound marker for the key.
	PutImage(ctx context.Context, key domain.PairKey, image []byte, source domain.CandidateDate) error
	// GetNotFound returns the marker, or (nil, nil) when absent or expired.
	// Expiry is lazy: an expired marker is removed during the read.
	GetNotFound(ctx context.Context, key domain.PairKey) (*NotFoundMarker, error)
	// PutNotFound records a negative result for the probed dates.
	PutNotFound(ctx context.Context, key domain.PairKey, probed []domain.CandidateDate) error
	// DeleteNotFound removes a marker that is no longer authoritative.
	DeleteNotFound(ctx context.Context, key domain.PairKey) error
}
