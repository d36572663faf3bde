// Package fs persists resolution outcomes as one file per pair key under a
// cache root. Every write goes through a temp file in the target directory
// followed by os.Rename, so readers never observe a partially written entry
// and concurrent writers for the same key resolve to last-writer-wins.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

var (
	_ ports.CacheStore      = (*Store)(nil)
	_ ports.DatePersistence = (*Store)(nil)
)

const (
	imagesDir   = "images"
	notfoundDir = "notfound"
	datesFile   = "dates.json"
)

// Store is the file-backed cache. Layout under the root:
//
//	images/<key>.png    raw image bytes
//	images/<key>.json   source date + saved-at metadata
//	notfound/<key>.json probed dates + created-at marker
//	dates.json          persisted candidate list
type Store struct {
	root   string
	expiry time.Duration
	now    func() time.Time
}

type imageMeta struct {
	SourceDate string    `json:"source_date"`
	SavedAt    time.Time `json:"saved_at"`
}

type notfoundMarker struct {
	ProbedDates []string  `json:"probed_dates"`
	CreatedAt   time.Time `json:"created_at"`
}

// New creates the cache directories under root.
func New(root string, notfoundExpiry time.Duration) (*Store, error) {
	for _, dir := range []string{filepath.Join(root, imagesDir), filepath.Join(root, notfoundDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return &Store{root: root, expiry: notfoundExpiry, now: time.Now}, nil
}

// WithClock overrides the time source for deterministic testing.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// GetImage returns the cached image, or nil when absent. A readable PNG with
// a missing or corrupt metadata sidecar still counts as a hit; the source
// date is simply unknown.
func (s *Store) GetImage(_ context.Context, key domain.PairKey) (*ports.CachedImage, error) {
	bytes, err := os.ReadFile(s.imagePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached image: %w", err)
	}
	entry := &ports.CachedImage{Bytes: bytes}
	var meta imageMeta
	if raw, err := os.ReadFile(s.imageMetaPath(key)); err == nil {
		if err := json.Unmarshal(raw, &meta); err == nil {
			entry.SourceDate = domain.CandidateDate(meta.SourceDate)
		}
	}
	return entry, nil
}

// PutImage atomically stores the image and its metadata, then clears any
// notfound marker for the key.
func (s *Store) PutImage(ctx context.Context, key domain.PairKey, image []byte, source domain.CandidateDate) error {
	meta, err := json.Marshal(imageMeta{SourceDate: source.String(), SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode image meta: %w", err)
	}
	if err := writeAtomic(s.imagePath(key), image); err != nil {
		return err
	}
	if err := writeAtomic(s.imageMetaPath(key), meta); err != nil {
		return err
	}
	return s.DeleteNotFound(ctx, key)
}

// GetNotFound returns the marker for the key. Expired or corrupt markers are
// deleted during the read and reported as absent.
func (s *Store) GetNotFound(_ context.Context, key domain.PairKey) (*ports.NotFoundMarker, error) {
	path := s.notfoundPath(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read notfound marker: %w", err)
	}
	var marker notfoundMarker
	if err := json.Unmarshal(raw, &marker); err != nil || marker.CreatedAt.IsZero() {
		_ = os.Remove(path)
		return nil, nil
	}
	if s.expiry > 0 && s.now().Sub(marker.CreatedAt) > s.expiry {
		_ = os.Remove(path)
		return nil, nil
	}
	probed := make([]domain.CandidateDate, 0, len(marker.ProbedDates))
	for _, d := range marker.ProbedDates {
		probed = append(probed, domain.CandidateDate(d))
	}
	return &ports.NotFoundMarker{ProbedDates: probed, CreatedAt: marker.CreatedAt}, nil
}

// PutNotFound atomically records a negative result for the probed dates.
func (s *Store) PutNotFound(_ context.Context, key domain.PairKey, probed []domain.CandidateDate) error {
	dates := make([]string, 0, len(probed))
	for _, d := range probed {
		dates = append(dates, d.String())
	}
	raw, err := json.Marshal(notfoundMarker{ProbedDates: dates, CreatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode notfound marker: %w", err)
	}
	return writeAtomic(s.notfoundPath(key), raw)
}

// DeleteNotFound removes a marker; a missing marker is not an error.
func (s *Store) DeleteNotFound(_ context.Context, key domain.PairKey) error {
	err := os.Remove(s.notfoundPath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove notfound marker: %w", err)
	}
	return nil
}

// PurgeExpiredNotFound removes every expired marker and reports the count.
// Used by the offline purger; the read path already expires lazily.
func (s *Store) PurgeExpiredNotFound(_ context.Context) (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, notfoundDir))
	if err != nil {
		return 0, fmt.Errorf("list notfound markers: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.root, notfoundDir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var marker notfoundMarker
		expired := json.Unmarshal(raw, &marker) != nil || marker.CreatedAt.IsZero() ||
			(s.expiry > 0 && s.now().Sub(marker.CreatedAt) > s.expiry)
		if expired && os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// LoadDates reads the persisted candidate list; an absent or corrupt file
// yields an empty list.
func (s *Store) LoadDates(_ context.Context) ([]domain.CandidateDate, error) {
	raw, err := os.ReadFile(filepath.Join(s.root, datesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read persisted dates: %w", err)
	}
	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, nil
	}
	parsed := make([]domain.CandidateDate, 0, len(dates))
	for _, d := range dates {
		date, err := domain.ParseCandidateDate(d)
		if err != nil {
			continue
		}
		parsed = append(parsed, date)
	}
	return parsed, nil
}

// SaveDates atomically persists the candidate list.
func (s *Store) SaveDates(_ context.Context, dates []domain.CandidateDate) error {
	raw := make([]string, 0, len(dates))
	for _, d := range dates {
		raw = append(raw, d.String())
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode dates: %w", err)
	}
	return writeAtomic(filepath.Join(s.root, datesFile), encoded)
}

func (s *Store) imagePath(key domain.PairKey) string {
	return filepath.Join(s.root, imagesDir, string(key)+".png")
}

func (s *Store) imageMetaPath(key domain.PairKey) string {
	return filepath.Join(s.root, imagesDir, string(key)+".json")
}

func (s *Store) notfoundPath(key domain.PairKey) string {
	return filepath.Join(s.root, notfoundDir, string(key)+".json")
}

// writeAtomic writes to a temp file in the target directory and renames it
// over the destination. Rename within one directory is atomic on POSIX and
// replaces on Windows via os.Rename semantics.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
