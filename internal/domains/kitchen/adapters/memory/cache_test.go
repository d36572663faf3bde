package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

func TestCacheStore_ImageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCacheStore(time.Hour)
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

func TestCacheStore_NotFoundExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewCacheStore(time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time { return now })
	key := domain.PairKey("1f600_1f60e")

	require.NoError(t, store.PutNotFound(ctx, key, []domain.CandidateDate{"20211115"}))

	marker, err := store.GetNotFound(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, marker)
	require.Equal(t, []domain.CandidateDate{"20211115"}, marker.ProbedDates)

	now = now.Add(2 * time.Hour)
	marker, err = store.GetNotFound(ctx, key)
	require.NoError(t, err)
	require.Nil(t, marker)
}

func TestCacheStore_PutImageClearsMarker(t *testing.T) {
	ctx := context.Background()
	store := NewCacheStore(time.Hour)
	key := domain.PairKey("1f600_1f60e")

	require.NoError(t, store.PutNotFound(ctx, key, []domain.CandidateDate{"20211115"}))
	require.NoError(t, store.PutImage(ctx, key, []byte("png"), "20211115"))

	marker, err := store.GetNotFound(ctx, key)
	require.NoError(t, err)
	require.Nil(t, marker)
}

func TestCacheStore_DeleteNotFoundAbsentKey(t *testing.T) {
	store := NewCacheStore(time.Hour)
	require.NoError(t, store.DeleteNotFound(context.Background(), "1f600_1f60e"))
}
