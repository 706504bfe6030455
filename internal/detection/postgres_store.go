package detection

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS content_fingerprints (
			id TEXT PRIMARY KEY,
			fingerprint BIGINT NOT NULL,
			content_id TEXT NOT NULL UNIQUE,
			creator_id TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_content_fingerprints_creator_id ON content_fingerprints(creator_id);
	`

	insertSQL = `
		INSERT INTO content_fingerprints (id, fingerprint, content_id, creator_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint
	`

	deleteSQL = `DELETE FROM content_fingerprints WHERE id = $1`

	loadAllSQL = `
		SELECT id, fingerprint, content_id, creator_id
		FROM content_fingerprints
	`

	getByContentIDSQL = `
		SELECT id, fingerprint, content_id, creator_id
		FROM content_fingerprints
		WHERE content_id = $1
	`
)

// implements FingerprintStore using PostgreSQL
type PostgresFingerprintStore struct {
	db *pgxpool.Pool
}

// creates a new PostgreSQL fingerprint store
func NewPostgresFingerprintStore(db *pgxpool.Pool) *PostgresFingerprintStore {
	return &PostgresFingerprintStore{db: db}
}

// creates the required tables if they don't exist
func (s *PostgresFingerprintStore) Initialize(ctx context.Context) error {
	_, err := s.db.Exec(ctx, createTableSQL)
	return err
}

// saves a fingerprint record
func (s *PostgresFingerprintStore) Store(ctx context.Context, record *FingerprintRecord) error {
	_, err := s.db.Exec(ctx, insertSQL,
		record.ID,
		int64(record.Fingerprint), //nolint:gosec // fingerprint is 64-bit, same width as int64
		record.ContentID,
		record.CreatorID,
	)
	if err != nil {
		return fmt.Errorf("failed to store fingerprint: %w", err)
	}
	return nil
}

// removes a fingerprint record
func (s *PostgresFingerprintStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, deleteSQL, id)
	return err
}

// loads all fingerprint records
func (s *PostgresFingerprintStore) LoadAll(ctx context.Context) ([]*FingerprintRecord, error) {
	rows, err := s.db.Query(ctx, loadAllSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprints: %w", err)
	}

	defer rows.Close()
	var records []*FingerprintRecord

	for rows.Next() {
		var record FingerprintRecord
		var fp int64

		if err := rows.Scan(&record.ID, &fp, &record.ContentID, &record.CreatorID); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}

		record.Fingerprint = Fingerprint(fp) //nolint:gosec // int64 and uint64 have same width
		records = append(records, &record)
	}

	return records, rows.Err()
}

// retrieves fingerprint by content ID
func (s *PostgresFingerprintStore) GetByContentID(ctx context.Context, contentID string) (*FingerprintRecord, error) {
	var record FingerprintRecord
	var fp int64

	err := s.db.QueryRow(ctx, getByContentIDSQL, contentID).Scan(
		&record.ID, &fp, &record.ContentID, &record.CreatorID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fingerprint: %w", err)
	}

	record.Fingerprint = Fingerprint(fp) //nolint:gosec // int64 and uint64 have same width
	return &record, nil
}
