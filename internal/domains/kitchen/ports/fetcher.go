package ports

import (
	"context"
	"errors"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

var (
	// ErrNoImage marks a clean 404: the (pair, date) combination does not
	// exist on the CDN. Only this failure counts toward a notfound marker.
	ErrNoImage = errors.New("combination not present on CDN")
	// ErrRateLimited marks a 429; probing must stop immediately.
	ErrRateLimited = errors.New("CDN rate limited the request")
)

// ImageFetcher issues a single probe and returns the image bytes.
// Anything other than ErrNoImage is treated as a transient failure of that
// probe, never as evidence of absence.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// URLBuilder produces the candidate CDN URLs for one (pair, date) probe.
// The CDN stores composites under one of the two orderings, so both are
// returned.
type URLBuilder interface {
	BuildURLs(pair domain.EmojiPair, date domain.CandidateDate) []string
}
