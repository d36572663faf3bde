package ports

import (
	"context"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

// ResolveInput carries an already-extracted emoji pair into the use case.
type ResolveInput struct {
	Pair domain.EmojiPair
}

// Resolution is the successful outcome of a resolve call.
type Resolution struct {
	Key        domain.PairKey
	Image      []byte
	SourceDate domain.CandidateDate
	FromCache  bool
}

// Service defines the kitchen use cases exposed to adapters (inbound port).
type Service interface {
	// Resolve returns the composite image for the pair, or
	// application.ErrNoCombination / application.ErrUpstream.
	Resolve(ctx context.Context, input ResolveInput) (*Resolution, error)
	// RefreshDates pulls the remote date list once and reports the snapshot
	// size after the merge.
	RefreshDates(ctx context.Context) (int, error)
	// CandidateDates returns the current candidate snapshot, newest first.
	CandidateDates(ctx context.Context) []domain.CandidateDate
}
