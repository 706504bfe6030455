package usage

import (
	"context"
	"errors"
	"fmt"
	"math"

	"codeberg.org/metastamp/server/metastamp/content"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidDuration = errors.New("usage duration must be positive")
)

// creates a new usage repository; earnings accrue at ratePerSecond
func NewRepository(db *pgxpool.Pool, contentRepo *content.Repository, ratePerSecond float64) *Repository {
	return &Repository{
		db:            db,
		content:       contentRepo,
		ratePerSecond: ratePerSecond,
	}
}

// registers the subscriber told about committed events
func (r *Repository) WithPublisher(p Publisher) *Repository {
	r.publisher = p
	return r
}

// creates the usage log table if it doesn't exist
func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.db.Exec(ctx, queryCreateTable)
	return err
}

// computes the earnings owed for a usage duration, rounded to 1e-6
func Earnings(durationSeconds int, ratePerSecond float64) float64 {
	if durationSeconds <= 0 || ratePerSecond <= 0 {
		return 0
	}

	return math.Round(float64(durationSeconds)*ratePerSecond*1e6) / 1e6
}

// inserts a usage event and credits its content in one transaction
func (r *Repository) Record(ctx context.Context, req RecordRequest) (*Event, *content.Content, error) {
	if req.DurationSeconds <= 0 {
		return nil, nil, ErrInvalidDuration
	}

	earnings := Earnings(req.DurationSeconds, r.ratePerSecond)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	event, err := scanEvent(tx.QueryRow(
		ctx,
		queryInsert,
		req.ContentID,
		req.Model,
		req.UsageType,
		req.DurationSeconds,
		earnings,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert usage event: %w", err)
	}

	inc, err := r.content.AddTouches(ctx, tx, req.ContentID, 1, earnings)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit usage event: %w", err)
	}

	if r.publisher != nil {
		r.publisher.PublishUsage(ctx, event, inc)
	}

	return event, inc.Content, nil
}

// lists a creator's most recent usage events, or everyone's when creatorID is empty
func (r *Repository) ListRecent(ctx context.Context, creatorID string, limit int) ([]Event, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if creatorID == "" {
		rows, err = r.db.Query(ctx, queryListRecentAll, limit)
	} else {
		rows, err = r.db.Query(ctx, queryListRecent, creatorID, limit)
	}

	if err != nil {
		return nil, err
	}

	return collectEvents(rows)
}

// lists the usage events recorded against one content row
func (r *Repository) ListForContent(ctx context.Context, contentID string, limit int) ([]Event, error) {
	rows, err := r.db.Query(ctx, queryListForContent, contentID, limit)
	if err != nil {
		return nil, err
	}

	return collectEvents(rows)
}

// totals a creator's usage and evaluates achievements
func (r *Repository) Summary(ctx context.Context, creatorID string) (*Summary, error) {
	totals, err := r.content.Totals(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, queryEarningsByModel, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to group earnings: %w", err)
	}

	defer rows.Close()

	summary := &Summary{
		CreatorID:     creatorID,
		TotalTouches:  totals.Touches,
		TotalEarnings: totals.Earnings,
		ByModel:       make(map[string]float64),
	}

	for rows.Next() {
		var model string
		var count int
		var earnings float64

		if err := rows.Scan(&model, &count, &earnings); err != nil {
			return nil, err
		}

		summary.Events += count
		summary.ByModel[model] = earnings
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary.Achievements = Achievements(summary.TotalTouches, summary.TotalEarnings)

	return summary, nil
}

func collectEvents(rows pgx.Rows) ([]Event, error) {
	defer rows.Close()
	events := []Event{}

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event

	err := row.Scan(
		&e.ID,
		&e.ContentID,
		&e.Model,
		&e.UsageType,
		&e.DurationSeconds,
		&e.Earnings,
		&e.DetectedAt,
	)

	if err != nil {
		return nil, err
	}

	return &e, nil
}
