// Package postgres implements the PostgreSQL persistence layer for the
// BiteBurst league service.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/biteburst/biteburst-leagues/internal/domain/league"
	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEAGUE BOARD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BoardRepository implements league.BoardRepository for PostgreSQL.
//
// Boards are normalized rows, never serialized blobs: membership writes
// go through INSERT .. ON CONFLICT DO NOTHING, so concurrent first views
// of the same (week, tier) converge on one board and one membership row
// without any application-side read-modify-write.
type BoardRepository struct {
	conn *Connection
}

// NewBoardRepository creates a new BoardRepository.
func NewBoardRepository(conn *Connection) *BoardRepository {
	return &BoardRepository{conn: conn}
}

// GetRoster returns the member IDs of the (weekStart, tier) board in
// join order, or shared.ErrBoardNotFound if the board was never created.
func (r *BoardRepository) GetRoster(ctx context.Context, weekStart time.Time, tier league.Tier) ([]string, error) {
	var boardID string
	err := r.conn.QueryRow(ctx,
		`SELECT id FROM league_boards WHERE week_start = $1 AND tier = $2`,
		weekDate(weekStart), tier.String(),
	).Scan(&boardID)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get league board: %w", err)
	}

	rows, err := r.conn.Query(ctx,
		`SELECT user_id FROM league_board_members WHERE board_id = $1 ORDER BY joined_at, user_id`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query board members: %w", err)
	}
	defer rows.Close()

	roster := make([]string, 0, 32)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		roster = append(roster, userID)
	}

	return roster, rows.Err()
}

// EnsureMember idempotently places the user on the (weekStart, tier)
// board, creating the board if needed. Both inserts run in one
// transaction; conflicts mean another request got there first, which is
// fine.
func (r *BoardRepository) EnsureMember(ctx context.Context, userID string, tier league.Tier, weekStart time.Time) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO league_boards (week_start, tier)
			VALUES ($1, $2)
			ON CONFLICT (week_start, tier) DO NOTHING
		`, weekDate(weekStart), tier.String()); err != nil {
			return fmt.Errorf("failed to ensure league board: %w", err)
		}

		var boardID string
		if err := tx.QueryRow(ctx,
			`SELECT id FROM league_boards WHERE week_start = $1 AND tier = $2`,
			weekDate(weekStart), tier.String(),
		).Scan(&boardID); err != nil {
			return fmt.Errorf("failed to load league board: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO league_board_members (board_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (board_id, user_id) DO NOTHING
		`, boardID, userID); err != nil {
			return fmt.Errorf("failed to ensure board membership: %w", err)
		}

		return nil
	})
}

// weekDate truncates a week start to its calendar date. The DATE column
// keys boards by day, so any timestamp inside the same Monday maps to
// the same board.
func weekDate(weekStart time.Time) time.Time {
	y, m, d := weekStart.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
