package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrContentNotFound   = errors.New("content not found")
	ErrNegativeIncrement = errors.New("content counters cannot decrease")
)

const (
	codeUniqueViolation = "23505"
	constraintHash      = "idx_content_creator_hash"
)

// is returned by Create when the creator already registered the same bytes
type DuplicateError struct {
	Existing *Content
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("content already registered as %s", e.Existing.ID)
}

// creates a new content repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// creates the content table if it doesn't exist
func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.db.Exec(ctx, queryCreateTable)
	return err
}

// returns the hex sha256 digest identifying uploaded bytes
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// inserts a new content record with zeroed counters
func (r *Repository) Create(ctx context.Context, req CreateContentRequest) (*Content, error) {
	row := r.db.QueryRow(
		ctx,
		queryCreate,
		req.ContentHash,
		req.CreatorID,
		req.CreatorLabel,
		req.Platform,
		req.Title,
		req.WatermarkID,
		req.FileURL,
	)

	created, err := scanContent(row)
	if !isUniqueViolation(err, constraintHash) {
		return created, err
	}

	existing, lookupErr := r.GetByHash(ctx, req.CreatorID, req.ContentHash)
	if lookupErr != nil {
		return nil, fmt.Errorf("failed to load conflicting content: %w", lookupErr)
	}

	return nil, &DuplicateError{Existing: existing}
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraint
}

// finds content by row id
func (r *Repository) Get(ctx context.Context, contentID string) (*Content, error) {
	return wrapNotFound(scanContent(r.db.QueryRow(ctx, queryGet, contentID)))
}

// finds a creator's most recent content with the given hash
func (r *Repository) GetByHash(ctx context.Context, creatorID, contentHash string) (*Content, error) {
	return wrapNotFound(scanContent(r.db.QueryRow(ctx, queryGetByHash, contentHash, creatorID)))
}

// finds the content a watermark was issued for
func (r *Repository) GetByWatermarkID(ctx context.Context, watermarkID string) (*Content, error) {
	return wrapNotFound(scanContent(r.db.QueryRow(ctx, queryGetByWatermarkID, watermarkID)))
}

// finds the content stored at a public file URL
func (r *Repository) GetByFileURL(ctx context.Context, fileURL string) (*Content, error) {
	return wrapNotFound(scanContent(r.db.QueryRow(ctx, queryGetByFileURL, fileURL)))
}

// lists a creator's content newest first
func (r *Repository) List(ctx context.Context, creatorID string, limit, offset int) ([]Content, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, queryCountByCreator, creatorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, queryList, creatorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()
	items := []Content{}

	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// updates the editable fields of a creator's content
func (r *Repository) Update(ctx context.Context, contentID, creatorID string, req UpdateContentRequest) (*Content, error) {
	row := r.db.QueryRow(ctx, queryUpdate, req.Title, req.Platform, contentID, creatorID)
	return wrapNotFound(scanContent(row))
}

// atomically increments a content row and its creator's totals; q may be an
// open transaction, otherwise one is started for the two updates
func (r *Repository) AddTouches(ctx context.Context, q Querier, contentID string, touches int64, earnings float64) (*Increment, error) {
	if touches < 0 || earnings < 0 {
		return nil, ErrNegativeIncrement
	}

	if q != nil {
		return addTouches(ctx, q, contentID, touches, earnings)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	inc, err := addTouches(ctx, tx, contentID, touches, earnings)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit counters: %w", err)
	}

	return inc, nil
}

func addTouches(ctx context.Context, q Querier, contentID string, touches int64, earnings float64) (*Increment, error) {
	updated, err := wrapNotFound(scanContent(q.QueryRow(ctx, queryAddTouches, touches, earnings, contentID)))
	if err != nil {
		return nil, err
	}

	var after Counters
	err = q.QueryRow(ctx, queryAddCreatorTotals, updated.CreatorID, touches, earnings).Scan(&after.Touches, &after.Earnings)
	if err != nil {
		return nil, fmt.Errorf("failed to update creator totals: %w", err)
	}

	return newIncrement(updated, after, touches, earnings), nil
}

func newIncrement(updated *Content, after Counters, touches int64, earnings float64) *Increment {
	return &Increment{
		Content: updated,
		Before:  Counters{Touches: after.Touches - touches, Earnings: after.Earnings - earnings},
		After:   after,
	}
}

// sums a creator's counters across all content
func (r *Repository) Totals(ctx context.Context, creatorID string) (*Totals, error) {
	var t Totals

	err := r.db.QueryRow(ctx, queryTotalsByCreator, creatorID).Scan(&t.Items, &t.Touches, &t.Earnings)
	if err != nil {
		return nil, fmt.Errorf("failed to total content: %w", err)
	}

	return &t, nil
}

func scanContent(row pgx.Row) (*Content, error) {
	var c Content

	err := row.Scan(
		&c.ID,
		&c.ContentHash,
		&c.CreatorID,
		&c.CreatorLabel,
		&c.Platform,
		&c.Title,
		&c.WatermarkID,
		&c.FileURL,
		&c.Touches,
		&c.Earnings,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &c, nil
}

func wrapNotFound(c *Content, err error) (*Content, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrContentNotFound
	}

	return c, err
}
