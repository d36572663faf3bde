package memory

import (
	"sync"
	"sync/atomic"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

var _ ports.CandidateSource = (*CandidateStore)(nil)

// CandidateStore holds the candidate-date list with copy-on-write snapshots:
// readers load an immutable sorted slice without locking, writers build a new
// slice under a mutex and swap it in atomically. A reader concurrent with a
// merge sees either the old list or the new one, never a partial merge.
type CandidateStore struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[[]domain.CandidateDate]
}

// NewCandidateStore seeds the store with the baseline list plus any extra
// dates from configuration.
func NewCandidateStore(extra ...domain.CandidateDate) *CandidateStore {
	s := &CandidateStore{}
	empty := []domain.CandidateDate{}
	s.snapshot.Store(&empty)
	s.Merge(domain.BaselineDates()...)
	s.Merge(extra...)
	return s
}

// Merge unions the dates into the set and reports how many were new.
func (s *CandidateStore) Merge(dates ...domain.CandidateDate) int {
	if len(dates) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := *s.snapshot.Load()
	known := make(map[domain.CandidateDate]struct{}, len(current)+len(dates))
	for _, d := range current {
		known[d] = struct{}{}
	}
	added := 0
	for _, d := range dates {
		if _, ok := known[d]; ok {
			continue
		}
		known[d] = struct{}{}
		added++
	}
	if added == 0 {
		return 0
	}
	next := make([]domain.CandidateDate, 0, len(known))
	for d := range known {
		next = append(next, d)
	}
	domain.SortNewestFirst(next)
	s.snapshot.Store(&next)
	return added
}

// Snapshot returns the current full candidate list, newest first. The slice
// is immutable; callers must not modify it.
func (s *CandidateStore) Snapshot() []domain.CandidateDate {
	return *s.snapshot.Load()
}
