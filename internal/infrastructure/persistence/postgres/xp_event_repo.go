// Package postgres implements the PostgreSQL persistence layer for the
// BiteBurst league service.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/biteburst/biteburst-leagues/internal/domain/xp"
)

// ══════════════════════════════════════════════════════════════════════════════
// XP EVENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// XPEventRepository implements xp.Repository for PostgreSQL.
type XPEventRepository struct {
	conn *Connection
}

// NewXPEventRepository creates a new XPEventRepository.
func NewXPEventRepository(conn *Connection) *XPEventRepository {
	return &XPEventRepository{conn: conn}
}

// WeeklyTotals sums XP per user over [start, end] inclusive in a single
// grouped query. Users without events in the window are absent from the
// result map.
func (r *XPEventRepository) WeeklyTotals(ctx context.Context, userIDs []string, start, end time.Time) (map[string]int, error) {
	totals := make(map[string]int, len(userIDs))
	if len(userIDs) == 0 {
		return totals, nil
	}

	query := `
		SELECT user_id, COALESCE(SUM(amount), 0)
		FROM xp_events
		WHERE user_id = ANY($1)
		  AND occurred_at >= $2
		  AND occurred_at <= $3
		GROUP BY user_id
	`

	rows, err := r.conn.Query(ctx, query, userIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate xp events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var total int

		if err := rows.Scan(&userID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan xp total row: %w", err)
		}

		totals[userID] = total
	}

	return totals, rows.Err()
}

// RecordEvent appends an event to the log.
func (r *XPEventRepository) RecordEvent(ctx context.Context, e *xp.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	occurredAt := e.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	query := `
		INSERT INTO xp_events (id, user_id, amount, reason, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query, e.ID, e.UserID, e.Amount, e.Reason, occurredAt)
	if err != nil {
		return fmt.Errorf("failed to record xp event: %w", err)
	}

	return nil
}
