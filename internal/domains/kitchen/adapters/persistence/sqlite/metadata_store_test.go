package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

func newTestMetadataStore(t *testing.T) *MetadataStore {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "metadata.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewMetadataStore(db)
	require.NoError(t, err)
	return store
}

func TestMetadataStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestMetadataStore(t)
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	combos, got, err := store.Combinations(ctx, "1f600")
	require.NoError(t, err)
	require.Nil(t, combos)
	require.True(t, got.IsZero())

	saved := map[string]domain.CandidateDate{
		"1f60e":     "20211115",
		"2764-fe0f": "20201001",
	}
	require.NoError(t, store.SaveCombinations(ctx, "1f600", saved, fetchedAt))

	combos, got, err = store.Combinations(ctx, "1f600")
	require.NoError(t, err)
	require.Equal(t, saved, combos)
	require.Equal(t, fetchedAt, got)
}

func TestMetadataStore_SaveReplacesIndex(t *testing.T) {
	ctx := context.Background()
	store := newTestMetadataStore(t)
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveCombinations(ctx, "1f600",
		map[string]domain.CandidateDate{"1f60e": "20201001", "1f4a9": "20201001"}, fetchedAt))
	require.NoError(t, store.SaveCombinations(ctx, "1f600",
		map[string]domain.CandidateDate{"1f60e": "20211115"}, fetchedAt.Add(time.Hour)))

	combos, got, err := store.Combinations(ctx, "1f600")
	require.NoError(t, err)
	require.Equal(t, map[string]domain.CandidateDate{"1f60e": "20211115"}, combos)
	require.Equal(t, fetchedAt.Add(time.Hour), got)
}

func TestMetadataStore_EmptyIndexStillRecordsFetch(t *testing.T) {
	ctx := context.Background()
	store := newTestMetadataStore(t)
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveCombinations(ctx, "1f600", nil, fetchedAt))

	combos, got, err := store.Combinations(ctx, "1f600")
	require.NoError(t, err)
	require.Empty(t, combos)
	require.Equal(t, fetchedAt, got)
}

func TestMetadataStore_PurgeFetchedBefore(t *testing.T) {
	ctx := context.Background()
	store := newTestMetadataStore(t)
	old := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveCombinations(ctx, "1f600",
		map[string]domain.CandidateDate{"1f60e": "20211115"}, old))
	require.NoError(t, store.SaveCombinations(ctx, "1f4a9",
		map[string]domain.CandidateDate{"1f60e": "20201001"}, fresh))

	removed, err := store.PurgeFetchedBefore(ctx, old.Add(24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	combos, got, err := store.Combinations(ctx, "1f600")
	require.NoError(t, err)
	require.Nil(t, combos)
	require.True(t, got.IsZero())

	combos, _, err = store.Combinations(ctx, "1f4a9")
	require.NoError(t, err)
	require.Len(t, combos, 1)
}
