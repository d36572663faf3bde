package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

func newTestStore(t *testing.T, expiry time.Duration) *Store {
	t.Helper()
	store, err := New(t.TempDir(), expiry)
	require.NoError(t, err)
	return store
}

func TestStore_ImageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)
	key := domain.PairKey("1f600_1f60e")

	got, err := store.GetImage(ctx, key)
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, store.PutImage(ctx, key, []byte("png-bytes"), "20211115"))

	got, err = store.GetImage(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []byte("png-bytes"), got.Bytes)
	require.Equal(t, domain.CandidateDate("20211115"), got.SourceDate)
}

func TestStore_ImageWithoutSidecarStillHits(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)
	key := domain.PairKey("1f600_1f60e")

	require.NoError(t, store.PutImage(ctx, key, []byte("png-bytes"), "20211115"))
	require.NoError(t, os.Remove(store.imageMetaPath(key)))

	got, err := store.GetImage(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []byte("png-bytes"), got.Bytes)
	require.Empty(t, got.SourceDate)
}

func TestStore_NotFoundRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)
	key := domain.PairKey("1f600_1f60e")

	marker, err := store.GetNotFound(ctx, key)
	require.NoError(t, err)
	require.Nil(t, marker)

	probed := []domain.CandidateDate{"20211115", "20201001"}
	require.NoError(t, store.PutNotFound(ctx, key, probed))

	marker, err = store.GetNotFound(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, marker)
	require.Equal(t, probed, marker.ProbedDates)
	require.False(t, marker.CreatedAt.IsZero())
}

func TestStore_NotFoundLazyExpiry(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time { return now })
	key := domain.PairKey("1f600_1f60e")

	require.NoError(t, store.PutNotFound(ctx, key, []domain.CandidateDate{"20211115"}))

	now = now.Add(2 * time.Hour)
	marker, err := store.GetNotFound(ctx, key)
	require.NoError(t, err)
	require.Nil(t, marker)

	// Expiry deletes the file, not just hides it.
	_, err = os.Stat(store.notfoundPath(key))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_CorruptMarkerTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)
	key := domain.PairKey("1f600_1f60e")

	require.NoError(t, os.WriteFile(store.notfoundPath(key), []byte("{not json"), 0o644))

	marker, err := store.GetNotFound(ctx, key)
	require.NoError(t, err)
	require.Nil(t, marker)

	_, err = os.Stat(store.notfoundPath(key))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_PutImageClearsMarker(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)
	key := domain.PairKey("1f600_1f60e")

	require.NoError(t, store.PutNotFound(ctx, key, []domain.CandidateDate{"20211115"}))
	require.NoError(t, store.PutImage(ctx, key, []byte("png"), "20211115"))

	marker, err := store.GetNotFound(ctx, key)
	require.NoError(t, err)
	require.Nil(t, marker)
}

func TestStore_PurgeExpiredNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time { return now })

	require.NoError(t, store.PutNotFound(ctx, "aaaa_bbbb", []domain.CandidateDate{"20211115"}))

	now = now.Add(2 * time.Hour)
	require.NoError(t, store.PutNotFound(ctx, "cccc_dddd", []domain.CandidateDate{"20211115"}))
	require.NoError(t, os.WriteFile(filepath.Join(store.root, notfoundDir, "corrupt.json"), []byte("junk"), 0o644))

	removed, err := store.PurgeExpiredNotFound(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	marker, err := store.GetNotFound(ctx, "cccc_dddd")
	require.NoError(t, err)
	require.NotNil(t, marker)
}

func TestStore_DatesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)

	dates, err := store.LoadDates(ctx)
	require.NoError(t, err)
	require.Empty(t, dates)

	saved := []domain.CandidateDate{"20251029", "20211115"}
	require.NoError(t, store.SaveDates(ctx, saved))

	dates, err = store.LoadDates(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, dates)
}

func TestStore_LoadDatesSkipsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)

	raw := []byte(`["20211115","not-a-date","2021"]`)
	require.NoError(t, os.WriteFile(filepath.Join(store.root, datesFile), raw, 0o644))

	dates, err := store.LoadDates(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.CandidateDate{"20211115"}, dates)
}

func TestStore_ConcurrentSameKeyWrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)
	key := domain.PairKey("1f600_1f60e")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, store.PutImage(ctx, key, []byte("payload"), "20211115"))
		}()
	}
	wg.Wait()

	got, err := store.GetImage(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []byte("payload"), got.Bytes)
}
