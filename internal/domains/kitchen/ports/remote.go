package ports

import (
	"context"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

// DateSource fetches the remote candidate-date document.
type DateSource interface {
	FetchDates(ctx context.Context) ([]domain.CandidateDate, error)
}

// CombinationSet is the parsed per-emoji metadata document: the preferred
// generation date per partner emoji, plus every date the document mentions.
type CombinationSet struct {
	// Combos maps the partner codepoint (hyphenated form) to the generation
	// date of the preferred combination.
	Combos map[string]domain.CandidateDate
	// Dates is every date seen in the document, for candidate-list merging.
	Dates []domain.CandidateDate
}

// MetadataSource fetches and parses one emoji's combination metadata.
type MetadataSource interface {
	FetchCombinations(ctx context.Context, cp string) (*CombinationSet, error)
}

// MetadataStore persists parsed combination metadata between restarts.
type MetadataStore interface {
	// Combinations returns the stored partner→date index for the codepoint
	// and when it was fetched. A zero time means the codepoint is unknown.
	Combinations(ctx context.Context, cp string) (map[string]domain.CandidateDate, time.Time, error)
	// SaveCombinations replaces the stored index for the codepoint.
	SaveCombinations(ctx context.Context, cp string, combos map[string]domain.CandidateDate, fetchedAt time.Time) error
	// PurgeFetchedBefore drops metadata fetched before the cutoff and
	// reports how many codepoints were removed.
	PurgeFetchedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
