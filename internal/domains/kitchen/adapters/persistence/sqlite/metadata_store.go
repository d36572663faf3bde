package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

var _ ports.MetadataStore = (*MetadataStore)(nil)

// MetadataStore persists per-emoji combination metadata in sqlite.
type MetadataStore struct {
	db *sql.DB
}

// NewMetadataStore creates the schema if needed and wires the store.
func NewMetadataStore(db *sql.DB) (*MetadataStore, error) {
	if db == nil {
		return nil, errors.New("sqlite db is nil")
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS metadata_fetches (
			cp TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS combinations (
			cp TEXT NOT NULL,
			partner_cp TEXT NOT NULL,
			date TEXT NOT NULL,
			PRIMARY KEY (cp, partner_cp)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("create metadata schema: %w", err)
		}
	}
	return &MetadataStore{db: db}, nil
}

// Combinations loads the partner→date index for the codepoint.
func (s *MetadataStore) Combinations(ctx context.Context, cp string) (map[string]domain.CandidateDate, time.Time, error) {
	var fetchedUnix int64
	err := s.db.QueryRowContext(ctx, `SELECT fetched_at FROM metadata_fetches WHERE cp = ?`, cp).Scan(&fetchedUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load metadata fetch record: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT partner_cp, date FROM combinations WHERE cp = ?`, cp)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load combinations: %w", err)
	}
	defer rows.Close()

	combos := map[string]domain.CandidateDate{}
	for rows.Next() {
		var partner, date string
		if err := rows.Scan(&partner, &date); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan combination: %w", err)
		}
		combos[partner] = domain.CandidateDate(date)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate combinations: %w", err)
	}
	return combos, time.Unix(fetchedUnix, 0).UTC(), nil
}

// SaveCombinations replaces the stored index for the codepoint in one
// transaction.
func (s *MetadataStore) SaveCombinations(ctx context.Context, cp string, combos map[string]domain.CandidateDate, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin metadata tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM combinations WHERE cp = ?`, cp); err != nil {
		return fmt.Errorf("clear combinations: %w", err)
	}
	for partner, date := range combos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO combinations (cp, partner_cp, date) VALUES (?, ?, ?)`,
			cp, partner, date.String()); err != nil {
			return fmt.Errorf("insert combination: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO metadata_fetches (cp, fetched_at) VALUES (?, ?)
		 ON CONFLICT(cp) DO UPDATE SET fetched_at = excluded.fetched_at`,
		cp, fetchedAt.Unix()); err != nil {
		return fmt.Errorf("record metadata fetch: %w", err)
	}
	return tx.Commit()
}

// PurgeFetchedBefore drops metadata fetched before the cutoff.
func (s *MetadataStore) PurgeFetchedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purge tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM combinations WHERE cp IN (SELECT cp FROM metadata_fetches WHERE fetched_at < ?)`,
		cutoff.Unix()); err != nil {
		return 0, fmt.Errorf("purge combinations: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM metadata_fetches WHERE fetched_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge fetch records: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		removed = 0
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(removed), nil
}
