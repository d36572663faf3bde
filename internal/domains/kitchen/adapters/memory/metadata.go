package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

var _ ports.MetadataStore = (*MetadataStore)(nil)

type metadataRecord struct {
	combos    map[string]domain.CandidateDate
	fetchedAt time.Time
}

// MetadataStore keeps combination metadata in memory. It serves as the
// fallback when sqlite is unavailable and as the test double.
type MetadataStore struct {
	mu      sync.RWMutex
	records map[string]metadataRecord
}

// NewMetadataStore constructs an empty store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{records: map[string]metadataRecord{}}
}

// Combinations returns the stored partner→date index for the codepoint.
func (s *MetadataStore) Combinations(_ context.Context, cp string) (map[string]domain.CandidateDate, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[cp]
	if !ok {
		return nil, time.Time{}, nil
	}
	combos := make(map[string]domain.CandidateDate, len(record.combos))
	for partner, date := range record.combos {
		combos[partner] = date
	}
	return combos, record.fetchedAt, nil
}

// SaveCombinations replaces the stored index for the codepoint.
func (s *MetadataStore) SaveCombinations(_ context.Context, cp string, combos map[string]domain.CandidateDate, fetchedAt time.Time) error {
	copied := make(map[string]domain.CandidateDate, len(combos))
	for partner, date := range combos {
		copied[partner] = date
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[cp] = metadataRecord{combos: copied, fetchedAt: fetchedAt}
	return nil
}

// PurgeFetchedBefore drops metadata fetched before the cutoff.
func (s *MetadataStore) PurgeFetchedBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for cp, record := range s.records {
		if record.fetchedAt.Before(cutoff) {
			delete(s.records, cp)
			removed++
		}
	}
	return removed, nil
}
