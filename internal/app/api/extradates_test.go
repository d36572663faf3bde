package api

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/memory"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMergeExtraDatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.txt")
	require.NoError(t, os.WriteFile(path, []byte("20230101\nbogus\n20240202\n"), 0o644))

	store := memory.NewCandidateStore()
	mergeExtraDatesFile(path, store, discardLogger())

	snapshot := store.Snapshot()
	require.Contains(t, snapshot, domain.CandidateDate("20230101"))
	require.Contains(t, snapshot, domain.CandidateDate("20240202"))
}

func TestMergeExtraDatesFile_MissingFile(t *testing.T) {
	store := memory.NewCandidateStore()
	before := len(store.Snapshot())

	mergeExtraDatesFile(filepath.Join(t.TempDir(), "absent.txt"), store, discardLogger())
	require.Len(t, store.Snapshot(), before)
}

func TestWatchExtraDates_PicksUpRewrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dates.txt")
	require.NoError(t, os.WriteFile(path, []byte("20230101\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewCandidateStore()
	require.NoError(t, watchExtraDates(ctx, path, store, discardLogger()))
	require.Contains(t, store.Snapshot(), domain.CandidateDate("20230101"))

	require.NoError(t, os.WriteFile(path, []byte("20230101\n20240202\n"), 0o644))
	require.Eventually(t, func() bool {
		return len(store.Snapshot()) == len(domain.BaselineDates())+2
	}, 3*time.Second, 10*time.Millisecond)
	require.Contains(t, store.Snapshot(), domain.CandidateDate("20240202"))
}

func TestWatchExtraDates_RenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dates.txt")
	require.NoError(t, os.WriteFile(path, []byte("20230101\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewCandidateStore()
	require.NoError(t, watchExtraDates(ctx, path, store, discardLogger()))

	// Replace the file the way editors do: write a sibling, rename it over.
	tmp := filepath.Join(dir, "dates.txt.new")
	require.NoError(t, os.WriteFile(tmp, []byte("20250303\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		for _, d := range store.Snapshot() {
			if d == "20250303" {
				return true
			}
		}
		return false
	}, 3*time.Second, 10*time.Millisecond)
}
