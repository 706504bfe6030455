package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS ledger_entries (
			sequence BIGINT PRIMARY KEY,
			id BIGINT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			data TEXT NOT NULL,
			prev_hash BYTEA NOT NULL,
			hash BYTEA NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
	`

	insertSQL = `
		INSERT INTO ledger_entries (sequence, id, kind, data, prev_hash, hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	lastSQL = `
		SELECT sequence, id, kind, data, prev_hash, hash, created_at
		FROM ledger_entries
		ORDER BY sequence DESC
		LIMIT 1
	`

	listSQL = `
		SELECT sequence, id, kind, data, prev_hash, hash, created_at
		FROM ledger_entries
		ORDER BY sequence DESC
		LIMIT $1 OFFSET $2
	`

	rangeSQL = `
		SELECT sequence, id, kind, data, prev_hash, hash, created_at
		FROM ledger_entries
		WHERE sequence >= $1
		ORDER BY sequence ASC
		LIMIT $2
	`

	countSQL = `SELECT COUNT(*) FROM ledger_entries`

	// postgres unique_violation
	codeUniqueViolation = "23505"
)

// implements Store using PostgreSQL
type PostgresStore struct {
	db *pgxpool.Pool
}

// creates a new PostgreSQL ledger store
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// creates the required tables if they don't exist
func (s *PostgresStore) Initialize(ctx context.Context) error {
	_, err := s.db.Exec(ctx, createTableSQL)
	return err
}

func (s *PostgresStore) Append(ctx context.Context, e *Entry) error {
	_, err := s.db.Exec(ctx, insertSQL,
		int64(e.Sequence), //nolint:gosec // sequences stay far below 2^63
		e.ID,
		string(e.Kind),
		e.Data,
		e.PrevHash.Bytes(),
		e.Hash.Bytes(),
		e.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return ErrSequenceConflict
	}

	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

func (s *PostgresStore) Last(ctx context.Context) (*Entry, error) {
	entry, err := scanEntry(s.db.QueryRow(ctx, lastSQL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return entry, err
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	rows, err := s.db.Query(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectEntries(rows)
}

func (s *PostgresStore) Range(ctx context.Context, from uint64, limit int) ([]*Entry, error) {
	rows, err := s.db.Query(ctx, rangeSQL, int64(from), limit) //nolint:gosec // sequences stay far below 2^63
	if err != nil {
		return nil, err
	}

	return collectEntries(rows)
}

func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return 0, err
	}

	return uint64(count), nil //nolint:gosec // COUNT is never negative
}

func collectEntries(rows pgx.Rows) ([]*Entry, error) {
	defer rows.Close()
	entries := []*Entry{}

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	var seq int64
	var kind string
	var prev, hash []byte

	if err := row.Scan(&seq, &e.ID, &kind, &e.Data, &prev, &hash, &e.CreatedAt); err != nil {
		return nil, err
	}

	e.Sequence = uint64(seq) //nolint:gosec // stored from a uint64
	e.Kind = Kind(kind)
	e.PrevHash = common.BytesToHash(prev)
	e.Hash = common.BytesToHash(hash)
	e.CreatedAt = e.CreatedAt.UTC()

	return &e, nil
}
