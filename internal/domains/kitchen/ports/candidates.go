package ports

import (
	"context"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

// CandidateSource owns the deduplicated candidate-date list. Merge never
// removes entries; Snapshot is safe for concurrent readers during a merge.
type CandidateSource interface {
	// Merge unions the dates into the known set and reports how many were new.
	Merge(dates ...domain.CandidateDate) int
	// Snapshot returns the full candidate list, newest first, deduplicated.
	Snapshot() []domain.CandidateDate
}

// DatePersistence stores the merged candidate list across restarts.
type DatePersistence interface {
	LoadDates(ctx context.Context) ([]domain.CandidateDate, error)
	SaveDates(ctx context.Context, dates []domain.CandidateDate) error
}
