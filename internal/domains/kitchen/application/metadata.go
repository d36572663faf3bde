package application

import (
	"context"
	"log/slog"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

// exactDate tries to short-circuit probing via the combination metadata
// index: when the index names the generation date for this pair, only that
// date needs a probe. On an index miss the per-emoji documents that are
// absent or stale get refetched once, their dates merged into the candidate
// list, and the lookup retried. Metadata failures never fail resolution; the
// caller just falls back to the probe window.
func (s *Service) exactDate(ctx context.Context, pair domain.EmojiPair) (domain.CandidateDate, bool) {
	if s.deps.Metadata == nil {
		return "", false
	}
	left := pair.Left().Hyphenated()
	right := pair.Right().Hyphenated()

	if date, ok := s.lookupStored(ctx, left, right); ok {
		return date, true
	}
	if s.deps.MetadataSource == nil {
		return "", false
	}

	refreshed := false
	for _, cp := range []string{left, right} {
		_, fetchedAt, err := s.deps.Metadata.Combinations(ctx, cp)
		if err != nil {
			s.logger.Warn("metadata store read failed", slog.String("cp", cp), slog.String("error", err.Error()))
			continue
		}
		if !fetchedAt.IsZero() && s.now().Sub(fetchedAt) <= s.metadataExpiry {
			continue
		}
		set, err := s.deps.MetadataSource.FetchCombinations(ctx, cp)
		if err != nil {
			s.logger.Debug("metadata fetch failed", slog.String("cp", cp), slog.String("error", err.Error()))
			continue
		}
		if err := s.deps.Metadata.SaveCombinations(ctx, cp, set.Combos, s.now()); err != nil {
			s.logger.Warn("metadata store write failed", slog.String("cp", cp), slog.String("error", err.Error()))
		}
		if added := s.deps.Candidates.Merge(set.Dates...); added > 0 {
			s.saveDates(ctx)
		}
		refreshed = true
	}
	if !refreshed {
		return "", false
	}
	return s.lookupStored(ctx, left, right)
}

// lookupStored checks the stored index in both directions: the left emoji's
// document listing the right as partner, and vice versa.
func (s *Service) lookupStored(ctx context.Context, left, right string) (domain.CandidateDate, bool) {
	for _, pair := range [][2]string{{left, right}, {right, left}} {
		combos, _, err := s.deps.Metadata.Combinations(ctx, pair[0])
		if err != nil {
			continue
		}
		if date, ok := combos[pair[1]]; ok {
			return date, true
		}
	}
	return "", false
}
